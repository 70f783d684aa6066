package services

import (
	"errors"
	"testing"
	"time"

	"moneytrack/internal/core"
)

func TestLocalDateChecker_IsDue(t *testing.T) {
	// 2024-01-01 23:30 UTC: Jan 2 in Tokyo, still Jan 1 in New York.
	checker := NewLocalDateChecker(time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC))

	tests := []struct {
		name      string
		scheduled core.Date
		zone      string
		want      bool
	}{
		{
			name:      "scheduled today in UTC - is due",
			scheduled: core.NewDate(2024, 1, 1),
			zone:      "UTC",
			want:      true,
		},
		{
			name:      "scheduled tomorrow in UTC - not due",
			scheduled: core.NewDate(2024, 1, 2),
			zone:      "UTC",
			want:      false,
		},
		{
			name:      "already tomorrow in Tokyo - is due",
			scheduled: core.NewDate(2024, 1, 2),
			zone:      "Asia/Tokyo",
			want:      true,
		},
		{
			name:      "still today in New York - not due",
			scheduled: core.NewDate(2024, 1, 2),
			zone:      "America/New_York",
			want:      false,
		},
		{
			name:      "overdue - is due",
			scheduled: core.NewDate(2023, 12, 1),
			zone:      "America/New_York",
			want:      true,
		},
		{
			name:      "unscheduled - never due",
			scheduled: core.Date{},
			zone:      "UTC",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.IsDue(tt.scheduled, tt.zone)
			if err != nil {
				t.Fatalf("IsDue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsDue(%s, %s) = %v, want %v", tt.scheduled, tt.zone, got, tt.want)
			}
		})
	}
}

func TestLocalDateChecker_UnknownZone(t *testing.T) {
	checker := NewLocalDateChecker(time.Now())

	_, err := checker.IsDue(core.NewDate(2024, 1, 1), "Atlantis/Capital")
	if !errors.Is(err, core.ErrValidation) {
		t.Errorf("IsDue() error = %v, want validation error", err)
	}
}

func TestLocalDateChecker_Cutoff(t *testing.T) {
	checker := NewLocalDateChecker(time.Date(2024, 2, 28, 23, 0, 0, 0, time.UTC))

	if got := checker.Cutoff().String(); got != "2024-02-29" {
		t.Errorf("Cutoff() = %s, want 2024-02-29", got)
	}

	kiritimati, err := checker.Today("Pacific/Kiritimati")
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if !kiritimati.OnOrBefore(checker.Cutoff()) {
		t.Errorf("Today(Kiritimati) = %s is after cutoff %s", kiritimati, checker.Cutoff())
	}
}

func TestLocalDateChecker_TodayIsSnapshotted(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	checker := NewLocalDateChecker(now)

	first, err := checker.Today("Europe/Rome")
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	second, err := checker.Today("Europe/Rome")
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if first != second || first.String() != "2024-06-30" {
		t.Errorf("Today() = %s then %s, want 2024-06-30 twice", first, second)
	}
}
