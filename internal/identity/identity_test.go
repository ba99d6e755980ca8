package identity

import (
	"testing"
	"time"
)

func TestDateOfBirth_CenturyPivot(t *testing.T) {
	tests := []struct {
		name       string
		nationalID string
		want       time.Time
	}{
		{
			name:       "year at pivot resolves to 2000s",
			nationalID: "2501155042087",
			want:       time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "year above pivot resolves to 1900s",
			nationalID: "2601155042087",
			want:       time.Date(1926, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "year zero resolves to 2000",
			nationalID: "0012255042087",
			want:       time.Date(2000, time.December, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "ninety-nine resolves to 1999",
			nationalID: "9907049042087",
			want:       time.Date(1999, time.July, 4, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DateOfBirth(tt.nationalID)
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDateOfBirth_Stable(t *testing.T) {
	first, err := DateOfBirth("9202204720082")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := DateOfBirth("9202204720082")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !again.Equal(first) {
			t.Fatalf("Expected stable result %v, got %v on call %d", first, again, i)
		}
	}
}

func TestDateOfBirth_RejectsImpossibleDates(t *testing.T) {
	// February 30th normalizes under time.Date; it must be rejected, not shifted.
	if _, err := DateOfBirth("9902304720082"); err != ErrInvalidNationalID {
		t.Errorf("Expected ErrInvalidNationalID, got: %v", err)
	}
	if _, err := DateOfBirth("9913014720082"); err != ErrInvalidNationalID {
		t.Errorf("Expected ErrInvalidNationalID for month 13, got: %v", err)
	}
}

func TestSex(t *testing.T) {
	tests := []struct {
		nationalID string
		want       string
	}{
		{"9202205042087", "M"}, // digit 7 is 5
		{"9202204042087", "F"}, // digit 7 is 4
		{"9202209042087", "M"},
		{"9202200042087", "F"},
	}

	for _, tt := range tests {
		got, err := Sex(tt.nationalID)
		if err != nil {
			t.Fatalf("Expected no error for %s, got: %v", tt.nationalID, err)
		}
		if got != tt.want {
			t.Errorf("Sex(%s): expected %s, got %s", tt.nationalID, tt.want, got)
		}
	}
}

func TestLoginID(t *testing.T) {
	created := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	got, err := LoginID("9202204720082", created)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got != "P244720082" {
		t.Errorf("Expected login ID 'P244720082', got '%s'", got)
	}
}

func TestLoginID_SameIDPartDifferentYears(t *testing.T) {
	// Two accounts sharing the same ID suffix must still get distinct login
	// IDs when created in different years.
	a, err := LoginID("9202204720082", time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	b, err := LoginID("9001014720082", time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if a == b {
		t.Errorf("Expected distinct login IDs, both were '%s'", a)
	}
}

func TestValidateNationalID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		ok   bool
	}{
		{"valid", "9202204720082", true},
		{"too short", "920220472008", false},
		{"too long", "92022047200821", false},
		{"letters", "92022047a0082", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNationalID(tt.id)
			if tt.ok && err != nil {
				t.Errorf("Expected valid, got: %v", err)
			}
			if !tt.ok && err != ErrInvalidNationalID {
				t.Errorf("Expected ErrInvalidNationalID, got: %v", err)
			}
		})
	}
}

func TestEmployeeID(t *testing.T) {
	got, err := EmployeeID("D", "drsmith")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got != "Ddrsmith" {
		t.Errorf("Expected 'Ddrsmith', got '%s'", got)
	}

	if _, err := EmployeeID("D", ""); err != ErrEmptyUsername {
		t.Errorf("Expected ErrEmptyUsername, got: %v", err)
	}
}
