// Package metrics holds the Prometheus collectors for ingestion and extraction.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Ingest groups the collectors observed by the extractor and the ingestion service.
// A nil *Ingest is valid and records nothing.
type Ingest struct {
	ExtractionDuration *prometheus.HistogramVec
	ExtractionFailures *prometheus.CounterVec
	DocumentsIngested  *prometheus.CounterVec
	ContentStored      *prometheus.CounterVec
}

// NewIngest creates the collectors and registers them on reg.
func NewIngest(reg prometheus.Registerer) (*Ingest, error) {
	m := &Ingest{
		ExtractionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docsearch_extraction_duration_seconds",
				Help:    "Time spent extracting text from uploaded documents.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"file_type"},
		),
		ExtractionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_extraction_failures_total",
				Help: "Number of documents whose text extraction failed.",
			},
			[]string{"file_type"},
		),
		DocumentsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_documents_ingested_total",
				Help: "Number of documents stored by the ingestion pipeline.",
			},
			[]string{"file_type"},
		),
		ContentStored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_content_stored_total",
				Help: "Number of documents stored together with extracted text.",
			},
			[]string{"file_type"},
		),
	}

	var err error
	if m.ExtractionDuration, err = register(reg, m.ExtractionDuration); err != nil {
		return nil, err
	}
	if m.ExtractionFailures, err = register(reg, m.ExtractionFailures); err != nil {
		return nil, err
	}
	if m.DocumentsIngested, err = register(reg, m.DocumentsIngested); err != nil {
		return nil, err
	}
	if m.ContentStored, err = register(reg, m.ContentStored); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, reusing the collector already registered under the
// same descriptor so that several components can share one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Ingest) ObserveExtraction(fileType string, seconds float64) {
	if m == nil {
		return
	}
	m.ExtractionDuration.WithLabelValues(fileType).Observe(seconds)
}

func (m *Ingest) ExtractionFailed(fileType string) {
	if m == nil {
		return
	}
	m.ExtractionFailures.WithLabelValues(fileType).Inc()
}

// Ingested records a stored document; withContent tells whether extracted text was stored too.
func (m *Ingest) Ingested(fileType string, withContent bool) {
	if m == nil {
		return
	}
	m.DocumentsIngested.WithLabelValues(fileType).Inc()
	if withContent {
		m.ContentStored.WithLabelValues(fileType).Inc()
	}
}
