package imagegen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"workshop/internal/domain"
	"workshop/internal/providers/horde"
)

type stubWorker struct {
	prompts  []string
	statuses []*domain.ImageStatus
	polls    int
	err      error
}

func (w *stubWorker) Name() string { return "stub" }

func (w *stubWorker) Submit(_ context.Context, prompt string) (*horde.Submission, error) {
	w.prompts = append(w.prompts, prompt)
	if w.err != nil {
		return nil, w.err
	}
	return &horde.Submission{ID: "job-1", Kudos: 10}, nil
}

func (w *stubWorker) Status(_ context.Context, jobID string) (*domain.ImageStatus, error) {
	if w.err != nil {
		return nil, w.err
	}
	st := w.statuses[min(w.polls, len(w.statuses)-1)]
	w.polls++
	return st, nil
}

func TestSubmit(t *testing.T) {
	worker := &stubWorker{}
	orch := New(Options{Worker: worker})
	job, err := orch.Submit(context.Background(), domain.ConfigurationRequest{
		FurnitureType: "armario",
		Style:         "moderno",
		Material:      domain.NewMultiValue("madera"),
		Color:         domain.NewMultiValue("gris"),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.ID != "job-1" || job.State != domain.ImageJobSubmitted {
		t.Fatalf("job = %+v", job)
	}
	if len(worker.prompts) != 1 || !strings.HasPrefix(worker.prompts[0], "Furniture design, wardrobe, style modern") {
		t.Fatalf("prompts = %v", worker.prompts)
	}
	if job.Prompt != worker.prompts[0] {
		t.Fatalf("job prompt differs from submitted prompt")
	}
}

func TestSubmitPropagatesWorkerError(t *testing.T) {
	cause := domain.NewProviderError("stub", "submit", errors.New("down"))
	orch := New(Options{Worker: &stubWorker{err: cause}})
	if _, err := orch.Submit(context.Background(), domain.ConfigurationRequest{}); !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v", err)
	}
}

func TestPollCachesTerminalStatus(t *testing.T) {
	worker := &stubWorker{statuses: []*domain.ImageStatus{
		{JobID: "job-1", State: domain.ImageJobQueued, QueuePosition: 3},
		{JobID: "job-1", State: domain.ImageJobDone, Done: true, Image: &domain.ImageReference{URL: "https://cdn.test/1.webp"}},
		{JobID: "job-1", State: domain.ImageJobFailed},
	}}
	orch := New(Options{Worker: worker, Cache: NewMemoryStatusCache()})
	ctx := context.Background()

	first, err := orch.Poll(ctx, "job-1")
	if err != nil || first.State != domain.ImageJobQueued {
		t.Fatalf("first poll = %+v, %v", first, err)
	}
	second, err := orch.Poll(ctx, "job-1")
	if err != nil || second.State != domain.ImageJobDone {
		t.Fatalf("second poll = %+v, %v", second, err)
	}
	third, err := orch.Poll(ctx, "job-1")
	if err != nil {
		t.Fatalf("third poll: %v", err)
	}
	if third.State != domain.ImageJobDone || third.Image == nil || third.Image.URL != "https://cdn.test/1.webp" {
		t.Fatalf("third poll = %+v, want cached done", third)
	}
	if worker.polls != 2 {
		t.Fatalf("worker polls = %d, want 2", worker.polls)
	}
}

func TestPollUnknownJob(t *testing.T) {
	orch := New(Options{Worker: &stubWorker{err: &domain.JobNotFoundError{JobID: "x"}}})
	if _, err := orch.Poll(context.Background(), "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if _, err := orch.Poll(context.Background(), " "); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("blank id err = %v, want not found", err)
	}
}
