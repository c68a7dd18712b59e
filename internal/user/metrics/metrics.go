package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the user module.
type Metrics struct {
	UsersCreated     prometheus.Counter
	UsersSoftDeleted prometheus.Counter
	StorageErrors    *prometheus.CounterVec
	CreateDuration   prometheus.Histogram
	ReadDuration     prometheus.Histogram
	UpdateDuration   prometheus.Histogram
}

// New creates a Metrics instance with all user module metrics registered on
// the default registry.
func New() *Metrics {
	buckets := []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "userapi_users_created_total",
			Help: "Total number of users created",
		}),
		UsersSoftDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "userapi_users_soft_deleted_total",
			Help: "Total number of users soft-deleted",
		}),
		StorageErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "userapi_storage_errors_total",
			Help: "Storage failures by operation",
		}, []string{"operation"}),
		CreateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "userapi_create_duration_seconds",
			Help:    "Duration of user create operations",
			Buckets: buckets,
		}),
		ReadDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "userapi_read_duration_seconds",
			Help:    "Duration of user read operations",
			Buckets: buckets,
		}),
		UpdateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "userapi_update_duration_seconds",
			Help:    "Duration of user update operations",
			Buckets: buckets,
		}),
	}
}

// IncrementCreated records a successful user creation.
func (m *Metrics) IncrementCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

// IncrementSoftDeleted records a successful soft delete.
func (m *Metrics) IncrementSoftDeleted() {
	if m == nil {
		return
	}
	m.UsersSoftDeleted.Inc()
}

// IncrementStorageError records a storage failure for the given operation.
func (m *Metrics) IncrementStorageError(operation string) {
	if m == nil {
		return
	}
	m.StorageErrors.WithLabelValues(operation).Inc()
}

// ObserveCreate records the duration of a create operation.
func (m *Metrics) ObserveCreate(start time.Time) {
	if m == nil {
		return
	}
	m.CreateDuration.Observe(time.Since(start).Seconds())
}

// ObserveRead records the duration of a get/list operation.
func (m *Metrics) ObserveRead(start time.Time) {
	if m == nil {
		return
	}
	m.ReadDuration.Observe(time.Since(start).Seconds())
}

// ObserveUpdate records the duration of an update operation.
func (m *Metrics) ObserveUpdate(start time.Time) {
	if m == nil {
		return
	}
	m.UpdateDuration.Observe(time.Since(start).Seconds())
}
