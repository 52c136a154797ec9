package tasks

import "github.com/Dicklesworthstone/taskmon/internal/model"

// Diff is the minimal change that brings a displayed row set in line with
// the latest task set.
type Diff struct {
	Insert []model.Task
	Remove []string
}

// Empty reports whether applying the diff would change nothing.
func (d Diff) Empty() bool { return len(d.Insert) == 0 && len(d.Remove) == 0 }

// Reconcile compares displayed row keys with current tasks. Tasks whose pid
// key is not displayed are inserted in current order; displayed keys whose
// pid is gone are removed; keys present in both are left alone.
func Reconcile(displayed []string, current []model.Task) Diff {
	shown := make(map[string]struct{}, len(displayed))
	for _, k := range displayed {
		shown[k] = struct{}{}
	}
	live := make(map[string]struct{}, len(current))
	var d Diff
	for _, t := range current {
		k := t.Key()
		live[k] = struct{}{}
		if _, ok := shown[k]; !ok {
			d.Insert = append(d.Insert, t)
		}
	}
	for _, k := range displayed {
		if _, ok := live[k]; !ok {
			d.Remove = append(d.Remove, k)
		}
	}
	return d
}

// Rows is an ordered task row set keyed by pid string.
type Rows struct {
	order []string
	byKey map[string]model.Task
}

func NewRows() *Rows { return &Rows{byKey: make(map[string]model.Task)} }

// Keys returns row keys in display order.
func (r *Rows) Keys() []string { return append([]string(nil), r.order...) }

// Tasks returns rows in display order.
func (r *Rows) Tasks() []model.Task {
	out := make([]model.Task, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKey[k])
	}
	return out
}

func (r *Rows) Len() int { return len(r.order) }

// Get returns the row for key.
func (r *Rows) Get(key string) (model.Task, bool) {
	t, ok := r.byKey[key]
	return t, ok
}

// Index returns the display position of key, or -1.
func (r *Rows) Index(key string) int {
	for i, k := range r.order {
		if k == key {
			return i
		}
	}
	return -1
}

// Apply removes then appends rows. Untouched rows keep their position and
// their originally inserted values.
func (r *Rows) Apply(d Diff) {
	if len(d.Remove) > 0 {
		gone := make(map[string]struct{}, len(d.Remove))
		for _, k := range d.Remove {
			gone[k] = struct{}{}
			delete(r.byKey, k)
		}
		kept := r.order[:0]
		for _, k := range r.order {
			if _, ok := gone[k]; !ok {
				kept = append(kept, k)
			}
		}
		r.order = kept
	}
	for _, t := range d.Insert {
		k := t.Key()
		if _, ok := r.byKey[k]; ok {
			continue
		}
		r.byKey[k] = t
		r.order = append(r.order, k)
	}
}

// Sync reconciles the rows against current and returns the applied diff.
func (r *Rows) Sync(current []model.Task) Diff {
	d := Reconcile(r.order, current)
	r.Apply(d)
	return d
}
