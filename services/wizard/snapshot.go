package wizard

import (
	"barberbook/models"
)

// Snapshot is the serializable state of a wizard, kept in the session store.
type Snapshot struct {
	ID       string              `json:"id"`
	Actor    Actor               `json:"actor"`
	Step     Step                `json:"step"`
	Draft    models.DraftBooking `json:"draft"`
	Preview  *models.Provider    `json:"preview,omitempty"`
	Customer models.CustomerInfo `json:"customer"`
}

func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Snapshot{
		ID:       w.id,
		Actor:    w.actor,
		Step:     w.step,
		Draft:    w.draft.Clone(),
		Customer: w.customer,
	}
	if w.preview != nil {
		p := *w.preview
		s.Preview = &p
	}
	return s
}

// Restore rebuilds a wizard from a snapshot.
func Restore(s Snapshot, deps Deps) *Wizard {
	w := New(s.ID, s.Actor, deps)
	if s.Step.Valid() {
		w.step = s.Step
	}
	w.draft = s.Draft.Clone()
	w.customer = s.Customer
	if s.Preview != nil {
		p := *s.Preview
		w.preview = &p
	}
	return w
}
