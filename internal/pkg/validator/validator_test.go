package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidDuration(t *testing.T) {
	valid := []string{"01:00:00", "00:30:00", "125:59:59", "1", "1:5", "1:05:7", " 02:00:00 ", "9999999:59:59"}
	invalid := []string{"", "abc", "01:60:00", "01:00:60", "-01:00:00", "1:2:3:4", "01::00",
		"10000000:00:00", "2562047788015215:59:59", "99999999999999999999:00:00"}
	for _, s := range valid {
		if !IsValidDuration(s) {
			t.Errorf("IsValidDuration(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidDuration(s) {
			t.Errorf("IsValidDuration(%q) = true, want false", s)
		}
	}
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"janedoe", "jane.doe", "rep_01", "a-b"}
	invalid := []string{"ab", "Jane", "jane doe", "", "jane@doe"}
	for _, s := range valid {
		if !IsValidUsername(s) {
			t.Errorf("IsValidUsername(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidUsername(s) {
			t.Errorf("IsValidUsername(%q) = true, want false", s)
		}
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "invalid"},
		{Field: "employee_id", Message: "required"},
	}
	got := errs.Error()
	want := "date: invalid; employee_id: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "invalid"},
		{Field: "employee_id", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"date": "invalid", "employee_id": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
