package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hirelens/hirelens/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When an id is recorded twice", func() {
			So(d.SeenAndRecord(ctx, "evt-1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "evt-1"), ShouldBeTrue)
			So(d.Size(), ShouldEqual, 1)
		})

		Convey("When an id is unrecorded", func() {
			d.SeenAndRecord(ctx, "evt-1")
			d.Unrecord(ctx, "evt-1")

			Convey("Then it can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "evt-1"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown id", func() {
			So(func() { d.Unrecord(ctx, "ghost") }, ShouldNotPanic)
			So(d.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a bounded deduper at capacity", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for i := 1; i <= 3; i++ {
			So(d.SeenAndRecord(ctx, fmt.Sprintf("evt-%d", i)), ShouldBeFalse)
		}

		Convey("When one more id arrives", func() {
			So(d.SeenAndRecord(ctx, "evt-4"), ShouldBeFalse)

			Convey("Then the oldest id was evicted and the rest remain", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "evt-1"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "evt-4"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an id unrecorded and re-recorded into a younger slot", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))
		So(d.SeenAndRecord(ctx, "evt-a"), ShouldBeFalse)
		d.Unrecord(ctx, "evt-a")
		So(d.SeenAndRecord(ctx, "evt-a"), ShouldBeFalse)

		Convey("When eviction reaches the stale older slot", func() {
			So(d.SeenAndRecord(ctx, "evt-b"), ShouldBeFalse)

			Convey("Then the re-recorded id still counts as seen", func() {
				So(d.SeenAndRecord(ctx, "evt-a"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			So(d.SeenAndRecord(ctx, fmt.Sprintf("evt-%d", i)), ShouldBeFalse)
		}
		So(d.Size(), ShouldEqual, 1000)
	})
}

func TestDeduperConcurrency(t *testing.T) {
	Convey("Given goroutines recording disjoint ids", t, func() {
		d := dedupe.NewInMemoryDeduper()
		const workers, perWorker = 10, 100

		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					d.SeenAndRecord(context.Background(), fmt.Sprintf("evt-%d-%d", w, i))
				}
			}(w)
		}
		wg.Wait()

		Convey("Then every id is tracked exactly once", func() {
			So(d.Size(), ShouldEqual, workers*perWorker)
		})
	})
}
