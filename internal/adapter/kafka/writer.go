// Package kafka publishes scraped temperature rows to a broker topic
// for downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/city-temp-map/internal/config"
	"github.com/couchcryptid/city-temp-map/internal/domain"
)

// Writer produces row messages to a Kafka topic.
// It implements scrape.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Scraper, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:  kafkago.TCP(cfg.KafkaBrokers...),
		Topic: cfg.KafkaTopic,
		// Hash keeps a city on one partition across scrape runs, since
		// messages are keyed by the deterministic row ID.
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishRows serializes and publishes the rows in a single
// WriteMessages call.
func (w *Writer) PublishRows(ctx context.Context, rows []domain.TemperatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	scrapedAt := domain.Now()
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := serializeRow(rows[i], scrapedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish rows: %w", err)
	}
	w.logger.Info("rows published", "count", len(rows))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// rowMessage is the wire shape of one published row.
type rowMessage struct {
	ID        string       `json:"id"`
	Continent string       `json:"continent"`
	Country   string       `json:"country"`
	City      string       `json:"city"`
	Months    [12]*float64 `json:"months"`
	YearlyAvg *float64     `json:"yearly_avg"`
	ScrapedAt time.Time    `json:"scraped_at"`
}

// serializeRow marshals a temperature row into a Kafka message keyed
// by the row's deterministic ID, so repeat scrapes of a city land on
// the same partition.
func serializeRow(row domain.TemperatureRow, scrapedAt time.Time) (kafkago.Message, error) {
	payload := rowMessage{
		ID:        row.ID(),
		Continent: row.Continent,
		Country:   row.Country,
		City:      row.City,
		Months:    row.Months,
		YearlyAvg: row.YearlyAvg,
		ScrapedAt: scrapedAt,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize row: %w", err)
	}

	return kafkago.Message{
		Key:   []byte(payload.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "continent", Value: []byte(row.Continent)},
			{Key: "scraped_at", Value: []byte(scrapedAt.Format(time.RFC3339))},
		},
	}, nil
}
