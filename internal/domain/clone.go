package domain

import "slices"

// Clone returns a deep copy of t. Edits in internal/itinerary work on the
// clone so that a caller's Trip is never mutated behind its back.
func (t Trip) Clone() Trip {
	out := t
	out.TotalBudget = clonePtr(t.TotalBudget)
	out.StartDate = clonePtr(t.StartDate)
	out.EndDate = clonePtr(t.EndDate)
	out.ActivityStart = clonePtr(t.ActivityStart)
	out.ActivityEnd = clonePtr(t.ActivityEnd)
	out.TransportPreferences = cloneStrings(t.TransportPreferences)
	out.Styles = cloneStrings(t.Styles)

	if t.Members != nil {
		out.Members = make([]User, len(t.Members))
		for i, m := range t.Members {
			out.Members[i] = m.Clone()
		}
	}
	if t.Days != nil {
		out.Days = make([]DaySchedule, len(t.Days))
		for i, d := range t.Days {
			out.Days[i] = d.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of d.
func (d DaySchedule) Clone() DaySchedule {
	out := d
	out.City = clonePtr(d.City)
	if d.Slots != nil {
		out.Slots = make([]Slot, len(d.Slots))
		for i, s := range d.Slots {
			out.Slots[i] = s.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s Slot) Clone() Slot {
	out := s
	out.Window = cloneStrings(s.Window)
	if s.Places != nil {
		out.Places = make([]Activity, len(s.Places))
		for i, a := range s.Places {
			out.Places[i] = a.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of a.
func (a Activity) Clone() Activity {
	out := a
	out.Category = clonePtr(a.Category)
	out.StayMinutes = clonePtr(a.StayMinutes)
	out.Rating = clonePtr(a.Rating)
	out.Reviews = clonePtr(a.Reviews)
	out.Address = clonePtr(a.Address)
	out.MapURL = clonePtr(a.MapURL)
	out.OpenText = clonePtr(a.OpenText)
	out.Types = cloneStrings(a.Types)
	out.FromPrevLegMin = clonePtr(a.FromPrevLegMin)
	return out
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	out := u
	out.AvatarURL = clonePtr(u.AvatarURL)
	out.Friends = cloneStrings(u.Friends)
	return out
}

// Equal reports whether two trips hold the same data. A nil slice and an
// empty slice compare equal, so a trip read back from storage equals the
// trip that was written.
func (t Trip) Equal(o Trip) bool {
	if t.ID != o.ID || t.CreatedBy != o.CreatedBy || t.Name != o.Name ||
		t.Locations != o.Locations || t.AvgAge != o.AvgAge ||
		t.UseGmapsRating != o.UseGmapsRating || t.Visibility != o.Visibility {
		return false
	}
	if !eqPtr(t.TotalBudget, o.TotalBudget) || !eqPtr(t.StartDate, o.StartDate) ||
		!eqPtr(t.EndDate, o.EndDate) || !eqPtr(t.ActivityStart, o.ActivityStart) ||
		!eqPtr(t.ActivityEnd, o.ActivityEnd) {
		return false
	}
	if !slices.Equal(t.TransportPreferences, o.TransportPreferences) || !slices.Equal(t.Styles, o.Styles) {
		return false
	}
	if !slices.EqualFunc(t.Members, o.Members, User.Equal) {
		return false
	}
	return slices.EqualFunc(t.Days, o.Days, DaySchedule.Equal)
}

// Equal reports whether two days hold the same data.
func (d DaySchedule) Equal(o DaySchedule) bool {
	return d.Date == o.Date && eqPtr(d.City, o.City) && slices.EqualFunc(d.Slots, o.Slots, Slot.Equal)
}

// Equal reports whether two slots hold the same data.
func (s Slot) Equal(o Slot) bool {
	return s.Label == o.Label && slices.Equal(s.Window, o.Window) &&
		slices.EqualFunc(s.Places, o.Places, Activity.Equal)
}

// Equal reports whether two activities hold the same data.
func (a Activity) Equal(o Activity) bool {
	return a.ID == o.ID && a.Name == o.Name && a.Lat == o.Lat && a.Lng == o.Lng &&
		eqPtr(a.Category, o.Category) && eqPtr(a.StayMinutes, o.StayMinutes) &&
		eqPtr(a.Rating, o.Rating) && eqPtr(a.Reviews, o.Reviews) &&
		eqPtr(a.Address, o.Address) && eqPtr(a.MapURL, o.MapURL) &&
		eqPtr(a.OpenText, o.OpenText) && slices.Equal(a.Types, o.Types) &&
		eqPtr(a.FromPrevLegMin, o.FromPrevLegMin)
}

// Equal reports whether two member references hold the same data.
func (u User) Equal(o User) bool {
	return u.ID == o.ID && u.Name == o.Name && u.Email == o.Email &&
		eqPtr(u.AvatarURL, o.AvatarURL) && slices.Equal(u.Friends, o.Friends)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Ptr returns a pointer to v. Handy for building optional fields in literals.
func Ptr[T any](v T) *T {
	return &v
}
