package testutil

import "testing"

// Given, When and Then name the stages of a kiosk scenario test: the
// provisioned state, the taps and prompts the operator drives, and what the
// device must do in response. They are plain subtests underneath, so -run
// filtering and t.Parallel keep working.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}
