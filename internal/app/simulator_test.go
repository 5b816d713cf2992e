package app_test

import (
	"math"
	"testing"

	"brainbank-service/internal/app"
)

func TestProjectCompounds(t *testing.T) {
	sim := app.DefaultSimulator()

	zero := sim.Project(0)
	if zero.Value != sim.Principal {
		t.Fatalf("year zero should equal principal, got %v", zero.Value)
	}

	ten := sim.Project(10)
	want := 20 * math.Pow(1.07, 10)
	if math.Abs(ten.Value-want) > 1e-9 {
		t.Fatalf("expected %v after 10 years, got %v", want, ten.Value)
	}
	if len(ten.Unlocked) != 1 || ten.Unlocked[0] != 25 {
		t.Fatalf("expected only the $25 milestone at ~%v, got %v", ten.Value, ten.Unlocked)
	}

	thirty := sim.Project(30)
	if len(thirty.Unlocked) != 4 {
		t.Fatalf("expected all milestones at ~%v, got %v", thirty.Value, thirty.Unlocked)
	}

	// Negative horizons clamp to zero.
	if sim.Project(-3).Value != sim.Principal {
		t.Fatalf("negative years should clamp to principal")
	}
}
