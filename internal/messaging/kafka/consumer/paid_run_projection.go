package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-payroll/internal/events"
)

// ConsumePaidRuns folds payroll.run.paid events into a Redis read model:
// one hash of runs per (company, period) plus rolling period totals. The
// relational tables remain the source of truth; this projection only feeds
// read-optimized dashboards.
func ConsumePaidRuns(
	ctx context.Context,
	reader *kafkago.Reader,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.paid_runs")
	log.Info("paid run projection consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("paid run projection consumer stopped")
				return
			}
			log.Error("fetch paid run message failed", zap.Error(err))
			continue
		}

		var event events.PayrollRunPaid
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode paid run event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := projectPaidRun(ctx, rdb, event); err != nil {
			log.Error("project paid run failed",
				zap.String("run_id", event.RunID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit paid run message failed", zap.Error(err))
			continue
		}

		log.Info("paid run projected",
			zap.String("run_id", event.RunID),
			zap.String("company_id", event.CompanyID),
			zap.String("period", event.Period),
		)
	}
}

func projectPaidRun(ctx context.Context, rdb *redis.Client, event events.PayrollRunPaid) error {
	runsKey := fmt.Sprintf("payroll:paid:%s:%s", event.CompanyID, event.Period)
	totalsKey := fmt.Sprintf("payroll:totals:%s:%s", event.CompanyID, event.Period)

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// HSetNX keeps redelivered events from double-counting the totals.
	added, err := rdb.HSetNX(ctx, runsKey, event.RunID, payload).Result()
	if err != nil {
		return err
	}
	if !added {
		return nil
	}

	pipe := rdb.Pipeline()
	pipe.HIncrByFloat(ctx, totalsKey, "net_pay", event.NetPay)
	pipe.HIncrByFloat(ctx, totalsKey, "tax", event.Tax)
	pipe.HIncrBy(ctx, totalsKey, "runs", 1)
	_, err = pipe.Exec(ctx)
	return err
}
