package models

import (
	"testing"
	"time"
)

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 4, 0},
		{1, 4, 25},
		{2, 4, 50},
		{4, 4, 100},
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 0},
		{5, 0, 0}, // no lessons means progress stays 0
	}

	for _, c := range cases {
		if got := ComputeProgress(c.completed, c.total); got != c.want {
			t.Errorf("ComputeProgress(%d, %d) = %d, want %d", c.completed, c.total, got, c.want)
		}
	}
}

func TestRecalculateProgress_CompletionIsOneWay(t *testing.T) {
	now := time.Now()
	e := &Enrollment{
		CompletedLessons: []CompletedLesson{
			{LessonID: "a", CompletedAt: now},
			{LessonID: "b", CompletedAt: now},
		},
	}

	if transitioned := e.RecalculateProgress(2, now); !transitioned {
		t.Fatal("expected transition to completed at 100% progress")
	}
	if e.Progress != 100 || !e.IsCompleted || e.CompletedAt == nil {
		t.Fatalf("unexpected state after completion: progress=%d isCompleted=%v completedAt=%v",
			e.Progress, e.IsCompleted, e.CompletedAt)
	}

	firstCompletedAt := *e.CompletedAt

	// A second recalculation must not transition again or move the timestamp.
	if transitioned := e.RecalculateProgress(2, now.Add(time.Hour)); transitioned {
		t.Error("completion transition fired twice")
	}
	if !e.IsCompleted || !e.CompletedAt.Equal(firstCompletedAt) {
		t.Error("completed state was not preserved on recalculation")
	}
}

func TestRecalculateProgress_Monotonic(t *testing.T) {
	now := time.Now()
	e := &Enrollment{}

	prev := 0
	for i := 1; i <= 4; i++ {
		e.CompletedLessons = append(e.CompletedLessons, CompletedLesson{LessonID: string(rune('a' + i)), CompletedAt: now})
		e.RecalculateProgress(4, now)
		if e.Progress < prev {
			t.Fatalf("progress decreased from %d to %d", prev, e.Progress)
		}
		prev = e.Progress
	}
	if e.Progress != 100 {
		t.Fatalf("expected 100%% after all lessons, got %d", e.Progress)
	}
}
