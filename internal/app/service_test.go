package service_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/hirelens/hirelens/internal/adapters/repository"
	service "github.com/hirelens/hirelens/internal/app"
	"github.com/hirelens/hirelens/internal/domain/model"
	"github.com/hirelens/hirelens/internal/domain/report"
	"github.com/hirelens/hirelens/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func startService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(func() { svc.Stop(context.Background()) })
	return svc
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSessionLifecycle(t *testing.T) {
	Convey("Given a running service", t, func() {
		ctx := context.Background()
		svc := startService(t)

		Convey("When creating a session without an id", func() {
			sess, err := svc.CreateSession(ctx, model.Session{CandidateName: "Sam"})

			So(err, ShouldBeNil)
			So(sess.ID, ShouldNotBeEmpty)
			So(sess.Status, ShouldEqual, model.StatusActive)
			So(sess.ProblemDifficulty, ShouldEqual, 1.0)

			Convey("Then valid events append with increasing sequence numbers", func() {
				e1, err := svc.IngestEvent(ctx, model.Event{
					SessionID: sess.ID,
					Kind:      model.KindSchemaExplored,
				})
				So(err, ShouldBeNil)
				So(e1.SequenceNumber, ShouldEqual, 1)
				So(e1.ID, ShouldNotBeEmpty)

				e2, err := svc.IngestEvent(ctx, model.Event{
					SessionID: sess.ID,
					Kind:      model.KindSQLRun,
					Metadata:  map[string]any{model.MetaQuery: "SELECT 1"},
				})
				So(err, ShouldBeNil)
				So(e2.SequenceNumber, ShouldEqual, 2)
			})

			Convey("Then an unknown kind is rejected", func() {
				_, err := svc.IngestEvent(ctx, model.Event{
					SessionID: sess.ID,
					Kind:      model.EventKind("MOUSE_MOVED"),
				})
				So(errors.Is(err, service.ErrInvalidEvent), ShouldBeTrue)
			})

			Convey("Then missing required metadata is rejected", func() {
				_, err := svc.IngestEvent(ctx, model.Event{
					SessionID: sess.ID,
					Kind:      model.KindSQLRun,
				})
				So(errors.Is(err, service.ErrInvalidEvent), ShouldBeTrue)
			})

			Convey("Then a repeated event id is rejected as duplicate", func() {
				e := model.Event{
					ID:        "evt-1",
					SessionID: sess.ID,
					Kind:      model.KindCodeEdit,
				}
				_, err := svc.IngestEvent(ctx, e)
				So(err, ShouldBeNil)

				_, err = svc.IngestEvent(ctx, e)
				So(errors.Is(err, service.ErrDuplicateEvent), ShouldBeTrue)
			})

			Convey("Then a report is not ready while the session is active", func() {
				_, err := svc.Report(ctx, sess.ID)
				So(errors.Is(err, service.ErrReportNotReady), ShouldBeTrue)
			})
		})

		Convey("When appending to an unknown session", func() {
			_, err := svc.IngestEvent(ctx, model.Event{
				SessionID: "ghost",
				Kind:      model.KindCodeEdit,
			})
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestSessionCompletion(t *testing.T) {
	Convey("Given a session with some activity", t, func() {
		ctx := context.Background()
		svc := startService(t)

		sess, err := svc.CreateSession(ctx, model.Session{ID: "s-complete", CandidateName: "Ada"})
		So(err, ShouldBeNil)

		for _, k := range []model.EventKind{
			model.KindSchemaExplored,
			model.KindTablePreviewed,
			model.KindErrorOccurred,
			model.KindErrorResolved,
		} {
			e := model.Event{SessionID: sess.ID, Kind: k}
			if k == model.KindErrorOccurred {
				e.Metadata = map[string]any{model.MetaMessage: "oops"}
			}
			_, err := svc.IngestEvent(ctx, e)
			So(err, ShouldBeNil)
		}

		Convey("When completing the session", func() {
			r, err := svc.CompleteSession(ctx, sess.ID)

			So(err, ShouldBeNil)
			So(len(r.Metrics), ShouldEqual, 9)
			So(r.SessionID, ShouldEqual, sess.ID)
			So(r.Narrative, ShouldNotBeEmpty)

			Convey("Then the log is frozen", func() {
				_, err := svc.IngestEvent(ctx, model.Event{
					SessionID: sess.ID,
					Kind:      model.KindCodeEdit,
				})
				So(errors.Is(err, repository.ErrSessionCompleted), ShouldBeTrue)
			})

			Convey("Then completing twice fails", func() {
				_, err := svc.CompleteSession(ctx, sess.ID)
				So(errors.Is(err, repository.ErrSessionCompleted), ShouldBeTrue)
			})

			Convey("Then the report is served from cache", func() {
				got, err := svc.Report(ctx, sess.ID)
				So(err, ShouldBeNil)
				So(got.SessionID, ShouldEqual, sess.ID)
				So(len(got.Evidence), ShouldEqual, len(r.Evidence))
			})
		})
	})
}

func TestReportCacheRebuild(t *testing.T) {
	Convey("Given a service with a single-entry report cache", t, func() {
		ctx := context.Background()
		svc := startService(t, service.WithReportCacheSize(1))

		complete := func(id string) {
			_, err := svc.CreateSession(ctx, model.Session{ID: id})
			So(err, ShouldBeNil)
			_, err = svc.IngestEvent(ctx, model.Event{SessionID: id, Kind: model.KindSchemaExplored})
			So(err, ShouldBeNil)
			_, err = svc.CompleteSession(ctx, id)
			So(err, ShouldBeNil)
		}
		complete("s-old")
		complete("s-new")

		Convey("When requesting the evicted report", func() {
			r, err := svc.Report(ctx, "s-old")

			Convey("Then it is reassembled from the frozen log", func() {
				So(err, ShouldBeNil)
				So(r.SessionID, ShouldEqual, "s-old")
				So(len(r.Metrics), ShouldEqual, 9)
			})
		})
	})
}

type stubSummarizer struct{ prose string }

func (s stubSummarizer) Summarize(context.Context, *report.Report) (string, error) {
	return s.prose, nil
}

func TestNarrativeEnrichment(t *testing.T) {
	Convey("Given a service with a custom summarizer", t, func() {
		ctx := context.Background()
		svc := startService(t, service.WithSummarizer(stubSummarizer{prose: "hand written prose"}))

		_, err := svc.CreateSession(ctx, model.Session{ID: "s-prose"})
		So(err, ShouldBeNil)
		_, err = svc.IngestEvent(ctx, model.Event{SessionID: "s-prose", Kind: model.KindSchemaExplored})
		So(err, ShouldBeNil)

		r, err := svc.CompleteSession(ctx, "s-prose")
		So(err, ShouldBeNil)
		So(r.Narrative, ShouldNotEqual, "hand written prose")

		Convey("Then the cached report picks up the generated narrative", func() {
			waitFor(t, func() bool {
				got, err := svc.Report(ctx, "s-prose")
				return err == nil && got.Narrative == "hand written prose"
			})
		})
	})
}

func TestLiveFeed(t *testing.T) {
	Convey("Given a subscriber on a session", t, func() {
		ctx := context.Background()
		svc := startService(t)

		_, err := svc.CreateSession(ctx, model.Session{ID: "s-live"})
		So(err, ShouldBeNil)

		feed, cancel := svc.Subscribe("s-live")

		Convey("When an event is ingested", func() {
			sent, err := svc.IngestEvent(ctx, model.Event{SessionID: "s-live", Kind: model.KindCodeEdit})
			So(err, ShouldBeNil)

			Convey("Then the subscriber receives it", func() {
				select {
				case got := <-feed:
					So(got.ID, ShouldEqual, sent.ID)
					So(got.SequenceNumber, ShouldEqual, 1)
				case <-time.After(time.Second):
					t.Fatal("no event on live feed")
				}
				cancel()
			})
		})

		Convey("When the subscription is cancelled", func() {
			cancel()

			Convey("Then further ingestion does not block or panic", func() {
				_, err := svc.IngestEvent(ctx, model.Event{SessionID: "s-live", Kind: model.KindCodeEdit})
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given a running service with one session", t, func() {
		ctx := context.Background()
		svc := startService(t)

		_, err := svc.CreateSession(ctx, model.Session{ID: "s-stats"})
		So(err, ShouldBeNil)

		stats := svc.Stats(ctx)

		So(stats["started"], ShouldEqual, true)
		So(stats["sessions"], ShouldEqual, 1)
	})
}
