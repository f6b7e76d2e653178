package utils

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestForEachIsolated(t *testing.T) {
	var ran int32
	outcomes, err := ForEachIsolated(context.Background(), 6, 2, func(ctx context.Context, i int) error {
		atomic.AddInt32(&ran, 1)
		switch i {
		case 1:
			return errors.New("bad")
		case 4:
			panic("boom")
		}
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, atomic.LoadInt32(&ran), test.ShouldEqual, 6)
	test.That(t, outcomes, test.ShouldHaveLength, 6)
	for i, outcome := range outcomes {
		switch i {
		case 1:
			test.That(t, outcome.Error(), test.ShouldEqual, "bad")
		case 4:
			test.That(t, outcome.Error(), test.ShouldContainSubstring, "got panic processing item 4")
		default:
			test.That(t, outcome, test.ShouldBeNil)
		}
	}
}

func TestForEachIsolatedCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := ForEachIsolated(ctx, 3, 1, func(ctx context.Context, i int) error {
		return nil
	})
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
	for _, outcome := range outcomes {
		test.That(t, errors.Is(outcome, context.Canceled), test.ShouldBeTrue)
	}
}

func TestForEachIsolatedDefaultWorkers(t *testing.T) {
	outcomes, err := ForEachIsolated(context.Background(), 0, 0, func(ctx context.Context, i int) error {
		return errors.New("never called")
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcomes, test.ShouldHaveLength, 0)
}
