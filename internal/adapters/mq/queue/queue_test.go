package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/hirelens/hirelens/internal/adapters/mq/queue"
	"github.com/hirelens/hirelens/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

func job(id string) queue.Job {
	return queue.Job{SessionID: id, Report: &report.Report{SessionID: id}}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh queue", t, func() {
		q := queue.NewInMemoryQueue()

		Convey("When a job is enqueued", func() {
			So(q.Enqueue(ctx, job("s-1")), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 1)

			Convey("Then dequeue delivers it", func() {
				select {
				case got := <-q.Dequeue(ctx):
					So(got.SessionID, ShouldEqual, "s-1")
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for job")
				}
			})
		})

		Convey("When the queue closes", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then it rejects new jobs", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, job("s-2")), ShouldBeFalse)
			})

			Convey("Then closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})

	Convey("Given a queue at capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		So(q.Enqueue(ctx, job("s-1")), ShouldBeTrue)
		So(q.Enqueue(ctx, job("s-2")), ShouldBeTrue)

		Convey("Then the next enqueue is refused without blocking", func() {
			So(q.Enqueue(ctx, job("s-3")), ShouldBeFalse)
			So(q.Len(ctx), ShouldEqual, 2)
		})
	})

	Convey("Given queued jobs when the queue closes", t, func() {
		q := queue.NewInMemoryQueue()
		So(q.Enqueue(ctx, job("s-1")), ShouldBeTrue)
		So(q.Enqueue(ctx, job("s-2")), ShouldBeTrue)
		So(q.Close(), ShouldBeNil)

		Convey("Then dequeue drains the backlog and then closes", func() {
			var got []string
			for j := range q.Dequeue(ctx) {
				got = append(got, j.SessionID)
			}
			So(got, ShouldResemble, []string{"s-1", "s-2"})
		})
	})
}
