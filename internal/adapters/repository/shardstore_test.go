package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hirelens/hirelens/internal/adapters/repository"
	"github.com/hirelens/hirelens/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestShardStoreSessions(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := repository.NewShardStore()

		Convey("When a session is created", func() {
			err := s.CreateSession(ctx, model.Session{ID: "s-1", CandidateName: "Ada"})
			So(err, ShouldBeNil)

			Convey("Then it is retrievable and active", func() {
				got, err := s.Session(ctx, "s-1")
				So(err, ShouldBeNil)
				So(got.Status, ShouldEqual, model.StatusActive)
				So(got.StartTime.IsZero(), ShouldBeFalse)
				So(s.Count(ctx), ShouldEqual, 1)
			})

			Convey("Then creating it again fails", func() {
				So(s.CreateSession(ctx, model.Session{ID: "s-1"}), ShouldEqual, repository.ErrAlreadyExists)
			})
		})

		Convey("When an unknown session is requested", func() {
			_, err := s.Session(ctx, "nope")
			So(err, ShouldEqual, repository.ErrNotFound)
		})
	})
}

func TestShardStoreAppend(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with an active session", t, func() {
		s := repository.NewShardStore()
		So(s.CreateSession(ctx, model.Session{ID: "s-1"}), ShouldBeNil)

		Convey("When events are appended", func() {
			first, err := s.AppendEvent(ctx, model.Event{SessionID: "s-1", Kind: model.KindSessionStart})
			So(err, ShouldBeNil)
			second, err := s.AppendEvent(ctx, model.Event{SessionID: "s-1", Kind: model.KindCodeEdit})
			So(err, ShouldBeNil)

			Convey("Then sequence numbers are assigned in order", func() {
				So(first.SequenceNumber, ShouldEqual, 1)
				So(second.SequenceNumber, ShouldEqual, 2)
			})

			Convey("Then the log comes back in sequence order", func() {
				events, err := s.Events(ctx, "s-1")
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
				So(events[0].Kind, ShouldEqual, model.KindSessionStart)
				So(events[1].SequenceNumber, ShouldEqual, 2)
			})
		})

		Convey("When appending to an unknown session", func() {
			_, err := s.AppendEvent(ctx, model.Event{SessionID: "ghost"})
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When the session completes", func() {
			done, err := s.CompleteSession(ctx, "s-1")
			So(err, ShouldBeNil)
			So(done.Status, ShouldEqual, model.StatusCompleted)
			So(done.EndTime.IsZero(), ShouldBeFalse)

			Convey("Then further appends are rejected", func() {
				_, err := s.AppendEvent(ctx, model.Event{SessionID: "s-1", Kind: model.KindCodeEdit})
				So(err, ShouldEqual, repository.ErrSessionCompleted)
			})

			Convey("Then completing again is rejected", func() {
				_, err := s.CompleteSession(ctx, "s-1")
				So(err, ShouldEqual, repository.ErrSessionCompleted)
			})
		})
	})
}

func TestShardStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()

	Convey("Given many goroutines appending to one session", t, func() {
		s := repository.NewShardStore(repository.WithShardCount(4))
		So(s.CreateSession(ctx, model.Session{ID: "s-1"}), ShouldBeNil)

		const n = 200
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				_, _ = s.AppendEvent(ctx, model.Event{SessionID: "s-1", Kind: model.KindCodeEdit})
			}()
		}
		wg.Wait()

		Convey("Then every event got a distinct monotonic sequence number", func() {
			events, err := s.Events(ctx, "s-1")
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, n)
			for i, e := range events {
				So(e.SequenceNumber, ShouldEqual, i+1)
			}
		})
	})
}

func TestShardStoreListing(t *testing.T) {
	ctx := context.Background()

	Convey("Given sessions spread across shards", t, func() {
		s := repository.NewShardStore(repository.WithShardCount(8))
		for i := 0; i < 20; i++ {
			So(s.CreateSession(ctx, model.Session{ID: fmt.Sprintf("s-%d", i)}), ShouldBeNil)
		}

		Convey("Then listing sees every session exactly once", func() {
			all, err := s.Sessions(ctx)
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 20)
			seen := map[string]bool{}
			for _, sess := range all {
				So(seen[sess.ID], ShouldBeFalse)
				seen[sess.ID] = true
			}
			So(s.Count(ctx), ShouldEqual, 20)
		})
	})
}
