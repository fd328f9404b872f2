package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hornossanz/shift-planner/pkg/calendar"
	"github.com/hornossanz/shift-planner/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTopN is how many ranked candidates a search returns
	DefaultTopN = 5

	// reinforcementToken marks staff whose contract is reinforcement work
	reinforcementToken = "refuerzo"
)

var (
	sameStoreBonus     = decimal.NewFromInt(1000)
	reinforcementBonus = decimal.NewFromInt(50)
)

// FinderOptions tunes the substitute search
type FinderOptions struct {
	TopN int
	// IsolateFailures keeps searching when one store cannot be computed; that
	// store's own staff are then treated as busy.
	IsolateFailures bool
}

// Finder computes who is free on a date and ranks substitutes
type Finder struct {
	orch *Orchestrator
	opts FinderOptions
	log  *logrus.Entry
}

// NewFinder creates a finder on top of an orchestrator
func NewFinder(orch *Orchestrator, opts FinderOptions, log *logrus.Entry) *Finder {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	return &Finder{orch: orch, opts: opts, log: log.WithField("component", "finder")}
}

// Busy is the set of employees with any shift or an absence on a date
type Busy struct {
	ids   map[uint]bool
	names map[string]bool
}

func newBusy() Busy {
	return Busy{ids: make(map[uint]bool), names: make(map[string]bool)}
}

func (b Busy) mark(s models.Shift) {
	if s.IsClosed() {
		return
	}
	if s.EmployeeID != 0 {
		b.ids[s.EmployeeID] = true
		return
	}
	b.names[s.Emp] = true
}

// Has reports whether e works that day. Shifts without an employee id match by name.
func (b Busy) Has(e models.Employee) bool {
	return b.ids[e.ID] || b.names[e.Name]
}

// Len is the number of distinct busy entries
func (b Busy) Len() int {
	return len(b.ids) + len(b.names)
}

// BusySet runs the orchestrator for every store on date. Employees recorded
// absent that day are busy too, whether or not they had a shift.
func (f *Finder) BusySet(ctx context.Context, date time.Time, snap Snapshot) (Busy, error) {
	busy := newBusy()
	absent, err := f.orch.Absences(ctx, date)
	if err != nil {
		return Busy{}, err
	}
	for id := range absent {
		busy.ids[id] = true
	}
	for _, store := range snap.Stores {
		plan, err := f.orch.ShiftsFor(ctx, store, date, snap)
		if err != nil {
			if !f.opts.IsolateFailures {
				return Busy{}, fmt.Errorf("compute shifts of %s: %w", store.Name, err)
			}
			f.log.WithError(err).WithFields(logrus.Fields{
				"store": store.Name,
				"date":  calendar.DateKey(date),
			}).Error("Could not compute store shifts, treating its staff as busy")
			for _, e := range snap.Employees {
				if e.StoreID == store.ID {
					busy.ids[e.ID] = true
				}
			}
			continue
		}
		for _, s := range plan.Shifts {
			busy.mark(s)
		}
	}
	return busy, nil
}

// Available lists every employee neither working nor absent on date, in roster order
func (f *Finder) Available(ctx context.Context, date time.Time) ([]models.Employee, error) {
	snap, err := f.orch.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	busy, err := f.BusySet(ctx, date, snap)
	if err != nil {
		return nil, err
	}
	free := make([]models.Employee, 0, len(snap.Employees))
	for _, e := range snap.Employees {
		if !busy.Has(e) {
			free = append(free, e)
		}
	}
	return free, nil
}

// FindSubstitutes ranks the free employees of the whole chain for a store and
// date. The window is validated but anyone working or absent that day is
// excluded regardless of overlap.
func (f *Finder) FindSubstitutes(ctx context.Context, storeID uint, date time.Time, window calendar.TimeRange) ([]models.Candidate, error) {
	if window.End <= window.Start {
		return nil, fmt.Errorf("%s: %w", window, ErrInvalidWindow)
	}

	snap, err := f.orch.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !hasStore(snap.Stores, storeID) {
		return nil, fmt.Errorf("store %d: %w", storeID, ErrStoreNotFound)
	}

	busy, err := f.BusySet(ctx, date, snap)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(snap.Employees))
	for _, e := range snap.Employees {
		if busy.Has(e) {
			continue
		}
		candidates = append(candidates, Score(e, storeID))
	}
	Rank(candidates)

	if len(candidates) > f.opts.TopN {
		candidates = candidates[:f.opts.TopN]
	}

	f.log.WithFields(logrus.Fields{
		"store":      storeID,
		"date":       calendar.DateKey(date),
		"window":     window.String(),
		"busy":       busy.Len(),
		"candidates": len(candidates),
	}).Info("Substitute search")
	return candidates, nil
}

// Score rates a free employee for covering storeID. Reasons follow the order
// in which the terms are added.
func Score(e models.Employee, storeID uint) models.Candidate {
	c := models.Candidate{Employee: e, Score: decimal.Zero, Reasons: []string{}}
	if e.StoreID == storeID {
		c.Score = c.Score.Add(sameStoreBonus)
		c.Reasons = append(c.Reasons, "Misma tienda")
	}
	if e.WeeklyHours.IsPositive() {
		c.Score = c.Score.Add(e.WeeklyHours)
		c.Reasons = append(c.Reasons, fmt.Sprintf("Contrato de %sh semanales", e.WeeklyHours.String()))
	}
	if e.HasRule(reinforcementToken) {
		c.Score = c.Score.Add(reinforcementBonus)
		c.Reasons = append(c.Reasons, "Perfil de refuerzo")
	}
	return c
}

// Rank sorts candidates by descending score, keeping roster order on ties
func Rank(candidates []models.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score.GreaterThan(candidates[j].Score)
	})
}

func hasStore(stores []models.Store, id uint) bool {
	for _, s := range stores {
		if s.ID == id {
			return true
		}
	}
	return false
}
