package shift

import "time"

// Code classifies a shift. Only CodeWork counts toward worked time;
// placeholders (standby, unpaid) are scheduled but never paid.
type Code string

const (
	CodeWork    Code = "work"
	CodeStandby Code = "standby"
	CodeUnpaid  Code = "unpaid"
)

// CountsAsWork reports whether the code marks a working shift.
func (c Code) CountsAsWork() bool {
	return c == CodeWork
}

// AbsenceType classifies a linked absence record.
type AbsenceType string

const (
	AbsenceSick     AbsenceType = "sick"
	AbsenceVacation AbsenceType = "vacation"
	AbsenceOther    AbsenceType = "other"
)

// AbsenceStatus is the approval state of a linked absence.
type AbsenceStatus string

const (
	AbsencePending  AbsenceStatus = "pending"
	AbsenceApproved AbsenceStatus = "approved"
	AbsenceRejected AbsenceStatus = "rejected"
)

// Absence is an absence record linked to a shift, e.g. a sickness report
// covering a scheduled working shift.
type Absence struct {
	ID     string
	Type   AbsenceType
	Status AbsenceStatus
}

// Shift is one scheduled block of work. Start/End are the planned times,
// ClockIn/ClockOut the recorded actuals. All instants are stored in UTC.
type Shift struct {
	ID        string
	UserID    string
	Start     time.Time
	End       time.Time
	ClockIn   *time.Time
	ClockOut  *time.Time
	Code      *Code
	Absence   *Absence
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasWorkingCode reports whether the shift is marked as counting toward
// worked time.
func (s Shift) HasWorkingCode() bool {
	return s.Code != nil && s.Code.CountsAsWork()
}

// HasPendingAbsence reports an unresolved linked absence. Such shifts are
// excluded from all accounting until the absence is decided.
func (s Shift) HasPendingAbsence() bool {
	return s.Absence != nil && s.Absence.Status == AbsencePending
}

// HasApprovedAbsence reports an approved linked absence, optionally of a
// specific type.
func (s Shift) HasApprovedAbsence(types ...AbsenceType) bool {
	if s.Absence == nil || s.Absence.Status != AbsenceApproved {
		return false
	}
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if s.Absence.Type == t {
			return true
		}
	}
	return false
}

// PayableInterval returns the interval a shift contributes to worked-time
// accounting, or ok=false when it contributes nothing.
//
// A working shift with no absence needs both clock times and contributes
// its clocked interval. A working shift with an approved absence
// contributes its planned interval instead. Anything else (missing clocks,
// non-working code, pending or rejected absence handling below) is skipped.
func (s Shift) PayableInterval() (start, end time.Time, ok bool) {
	if !s.HasWorkingCode() || s.HasPendingAbsence() {
		return time.Time{}, time.Time{}, false
	}
	if s.HasApprovedAbsence() {
		return s.Start, s.End, true
	}
	if s.ClockIn == nil || s.ClockOut == nil {
		return time.Time{}, time.Time{}, false
	}
	return *s.ClockIn, *s.ClockOut, true
}
