package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a fresh registry", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithRegistry(reg), WithNamespace("test"), WithSubsystem("challenge"))
		So(m, ShouldNotBeNil)

		Convey("All collectors are registered and gatherable", func() {
			m.challengesGenerated.Inc()
			m.submissionsTotal.Inc()
			m.duplicateSubmits.Inc()
			m.assemblyFailures.WithLabelValues("incomplete").Inc()
			m.leaderboardSize.WithLabelValues("2025-01-01").Set(3)
			m.projectionDuration.Observe(0.001)
			m.submitDuration.Observe(0.002)
			m.storeErrors.WithLabelValues("save").Inc()
			m.httpRequests.WithLabelValues("leaderboard", "200").Inc()
			m.httpRequestDuration.WithLabelValues("leaderboard").Observe(0.003)

			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldEqual, 10)
		})
	})

	Convey("Global helpers do not panic and feed the shared registry", t, func() {
		RecordChallengeGenerated()
		RecordSubmission()
		RecordDuplicateSubmission()
		RecordAssemblyFailure("ambiguous")
		UpdateLeaderboardSize("2025-01-01", 5)
		ObserveProjectionDuration(time.Millisecond)
		ObserveSubmitDuration(time.Millisecond)
		RecordStoreError("load")
		RecordHTTPRequest("submit", "409")
		ObserveHTTPRequestDuration("submit", time.Millisecond)

		families, err := GetRegistry().Gather()
		So(err, ShouldBeNil)
		So(len(families), ShouldBeGreaterThan, 0)
	})
}
