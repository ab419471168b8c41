package domain

import "testing"

func TestValidStatus(t *testing.T) {
	for _, s := range LeadStatuses {
		if !ValidStatus(s) {
			t.Errorf("status %q should be valid", s)
		}
	}

	for _, s := range []LeadStatus{"", "closed", "New", "Won", "Archived"} {
		if ValidStatus(s) {
			t.Errorf("status %q should be invalid", s)
		}
	}
}

func TestWantsNotification(t *testing.T) {
	u := &User{}
	if !u.WantsNotification(PrefLeadAssigned) {
		t.Error("nil preference map should default to enabled")
	}

	u.NotificationPreferences = map[string]bool{PrefStatusChanged: false}
	if u.WantsNotification(PrefStatusChanged) {
		t.Error("explicitly disabled preference should be off")
	}
	if !u.WantsNotification(PrefLeadAssigned) {
		t.Error("absent key should default to enabled")
	}
}
