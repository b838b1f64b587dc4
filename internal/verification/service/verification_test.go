package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/medinex-ai/registry/internal/identity"
	"github.com/medinex-ai/registry/internal/platform/requestctx"
	regdomain "github.com/medinex-ai/registry/internal/registry/domain"
	"github.com/medinex-ai/registry/internal/storage"
	"github.com/medinex-ai/registry/internal/verification/domain"
)

func newTestService(store storage.Store) *VerificationService {
	svc := NewVerificationService(store)
	svc.clock = func() time.Time {
		return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	}
	counter := 0
	svc.idGenerator = func() (string, error) {
		counter++
		return fmt.Sprintf("verif-%d", counter), nil
	}
	return svc
}

func callerContext(caller identity.ID) context.Context {
	return requestctx.WithCaller(context.Background(), caller)
}

func seedModel(store *fakeStore, id string) {
	store.models[id] = regdomain.Model{
		ID:        id,
		Name:      "model " + id,
		ModelHash: "abcdef0123456789",
		Authority: "authority-1",
	}
}

func validVerifyInput() VerifyDataInput {
	return VerifyDataInput{
		DataHash:        "fedcba9876543210",
		Method:          "double-blind-review",
		ConfidenceScore: 0.9,
		IsValid:         true,
		ResultDetails:   "no anomalies in sampled slices",
	}
}

func TestVerifyMedicalData(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	verification, err := svc.VerifyMedicalData(callerContext("verifier-1"), validVerifyInput())
	if err != nil {
		t.Fatalf("verify medical data: %v", err)
	}
	if verification.Kind != domain.KindMedicalData {
		t.Fatalf("kind = %v, want medical data", verification.Kind)
	}
	if verification.ResultDetails != "no anomalies in sampled slices" {
		t.Fatalf("result details = %q", verification.ResultDetails)
	}
	persisted, ok := store.verifications[verification.ID]
	if !ok {
		t.Fatal("verification not persisted")
	}
	if persisted.ResultDetails != verification.ResultDetails {
		t.Fatalf("persisted result details = %q", persisted.ResultDetails)
	}
}

func TestVerifyModelOutputCountsOnModel(t *testing.T) {
	store := newFakeStore()
	seedModel(store, "model-1")
	svc := newTestService(store)

	input := validVerifyInput()
	input.ModelID = "model-1"
	verification, err := svc.VerifyModelOutput(callerContext("verifier-1"), input)
	if err != nil {
		t.Fatalf("verify model output: %v", err)
	}
	if verification.Kind != domain.KindModelOutput {
		t.Fatalf("kind = %v, want model output", verification.Kind)
	}
	if store.models["model-1"].VerificationCount != 1 {
		t.Fatalf("model verification count = %d, want 1", store.models["model-1"].VerificationCount)
	}
}

func TestVerifyModelOutputRequiresModel(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.VerifyModelOutput(callerContext("verifier-1"), validVerifyInput())
	if !errors.Is(err, domain.ErrModelRequired) {
		t.Fatalf("err = %v, want model required", err)
	}
}

func TestVerifyModelOutputMissingModelRollsBack(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	input := validVerifyInput()
	input.ModelID = "missing"
	_, err := svc.VerifyModelOutput(callerContext("verifier-1"), input)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if len(store.verifications) != 0 {
		t.Fatal("failed verification was persisted")
	}
}

func TestExpertReviewOptionalModel(t *testing.T) {
	store := newFakeStore()
	seedModel(store, "model-1")
	svc := newTestService(store)

	// Without a model reference.
	if _, err := svc.RecordExpertReview(callerContext("expert-1"), validVerifyInput()); err != nil {
		t.Fatalf("expert review without model: %v", err)
	}
	if store.models["model-1"].VerificationCount != 0 {
		t.Fatal("model counter moved without a model reference")
	}

	// With a model reference the counter moves.
	input := validVerifyInput()
	input.ModelID = "model-1"
	if _, err := svc.RecordExpertReview(callerContext("expert-1"), input); err != nil {
		t.Fatalf("expert review with model: %v", err)
	}
	if store.models["model-1"].VerificationCount != 1 {
		t.Fatalf("model verification count = %d, want 1", store.models["model-1"].VerificationCount)
	}
}

func TestVerifyMissingCaller(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.VerifyAnalysisResult(context.Background(), validVerifyInput())
	if !errors.Is(err, identity.ErrCallerMissing) {
		t.Fatalf("err = %v, want caller missing", err)
	}
}

func TestListFiltersByModel(t *testing.T) {
	store := newFakeStore()
	seedModel(store, "model-1")
	svc := newTestService(store)

	input := validVerifyInput()
	input.ModelID = "model-1"
	if _, err := svc.VerifyModelOutput(callerContext("verifier-1"), input); err != nil {
		t.Fatalf("verify model output: %v", err)
	}
	if _, err := svc.VerifyMedicalData(callerContext("verifier-1"), validVerifyInput()); err != nil {
		t.Fatalf("verify medical data: %v", err)
	}

	page, err := svc.List(context.Background(), "model-1", 10, "")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(page.Verifications) != 1 {
		t.Fatalf("filtered len = %d, want 1", len(page.Verifications))
	}

	page, err = svc.List(context.Background(), "", 10, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(page.Verifications) != 2 {
		t.Fatalf("all len = %d, want 2", len(page.Verifications))
	}
}
