package main

import (
	"log/slog"
	"time"

	"github.com/md-rashed-zaman/doctorbook/libs/config"
	"github.com/md-rashed-zaman/doctorbook/libs/kafkax"
	"github.com/md-rashed-zaman/doctorbook/libs/runtime"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/events"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/source"
)

// openPublisher prefers Kafka, then RabbitMQ, then drops events.
func openPublisher(logger *slog.Logger) (events.Publisher, []runtime.ReadyCheck, func()) {
	if brokers := config.String("KAFKA_BROKERS", ""); brokers != "" {
		kp := events.NewKafkaPublisher(brokers, logger)
		closeFn := func() {}
		if p, ok := kp.(*events.KafkaPublisher); ok {
			closeFn = func() { _ = p.Close() }
		}
		return kp, []runtime.ReadyCheck{{Name: "kafka", Check: kafkax.ReadyCheck(brokers)}}, closeFn
	}

	if url := config.String("RABBITMQ_URL", ""); url != "" {
		rp, err := events.NewRabbitPublisher(url, config.String("RABBITMQ_EXCHANGE", events.DefaultExchange), logger)
		if err != nil {
			logger.Error("rabbitmq unavailable, events disabled", "err", err)
			return events.Noop{}, nil, func() {}
		}
		return rp, []runtime.ReadyCheck{{Name: "rabbitmq", Check: rp.ReadyCheck}}, func() { _ = rp.Close() }
	}

	logger.Info("no event broker configured, events disabled")
	return events.Noop{}, nil, func() {}
}

func newSource(fetchTimeout time.Duration) source.Fetcher {
	if path := config.String("AVAILABILITY_FILE", ""); path != "" {
		return source.NewFileSource(path)
	}
	return source.NewClient(config.String("AVAILABILITY_URL", source.DefaultURL), fetchTimeout)
}
