package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	importJobsQueued    atomic.Int64
	importJobsCompleted atomic.Int64
	importJobsFailed    atomic.Int64
	importJobsRetried   atomic.Int64
	importItemsSaved    atomic.Int64
	showEventsIndexed   atomic.Int64
)

func JobQueued() {
	importJobsQueued.Add(1)
}

func JobCompleted(itemsSaved int) {
	importJobsCompleted.Add(1)
	importItemsSaved.Add(int64(itemsSaved))
}

func JobFailed() {
	importJobsFailed.Add(1)
}

func JobRetried() {
	importJobsRetried.Add(1)
}

func ShowEventIndexed() {
	showEventsIndexed.Add(1)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP cms_import_jobs_queued_total Number of import jobs accepted for background processing.\n")
	fmt.Fprintf(w, "# TYPE cms_import_jobs_queued_total counter\n")
	fmt.Fprintf(w, "cms_import_jobs_queued_total %d\n", importJobsQueued.Load())

	fmt.Fprintf(w, "# HELP cms_import_jobs_completed_total Number of import jobs that reached COMPLETED.\n")
	fmt.Fprintf(w, "# TYPE cms_import_jobs_completed_total counter\n")
	fmt.Fprintf(w, "cms_import_jobs_completed_total %d\n", importJobsCompleted.Load())

	fmt.Fprintf(w, "# HELP cms_import_jobs_failed_total Number of import jobs that reached FAILED.\n")
	fmt.Fprintf(w, "# TYPE cms_import_jobs_failed_total counter\n")
	fmt.Fprintf(w, "cms_import_jobs_failed_total %d\n", importJobsFailed.Load())

	fmt.Fprintf(w, "# HELP cms_import_jobs_retried_total Number of retry messages published for failed attempts.\n")
	fmt.Fprintf(w, "# TYPE cms_import_jobs_retried_total counter\n")
	fmt.Fprintf(w, "cms_import_jobs_retried_total %d\n", importJobsRetried.Load())

	fmt.Fprintf(w, "# HELP cms_import_items_saved_total Number of external items persisted by completed imports.\n")
	fmt.Fprintf(w, "# TYPE cms_import_items_saved_total counter\n")
	fmt.Fprintf(w, "cms_import_items_saved_total %d\n", importItemsSaved.Load())

	fmt.Fprintf(w, "# HELP cms_discovery_show_events_indexed_total Number of show events applied to the search index.\n")
	fmt.Fprintf(w, "# TYPE cms_discovery_show_events_indexed_total counter\n")
	fmt.Fprintf(w, "cms_discovery_show_events_indexed_total %d\n", showEventsIndexed.Load())
}
