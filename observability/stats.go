package observability

import (
	"context"
	"strings"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/SamJulson/RBTree/lib/infra"
	"github.com/SamJulson/RBTree/lib/tree"
)

const rbtreeNameAttrKey = "rbtree.name"

// RBTreeStatsSource is satisfied by every tree.RBTree.
type RBTreeStatsSource interface {
	Stats() tree.RBTreeStats
}

func meterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString("rbtree/stats")
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// RegisterRBTreeStats observes the source stats at every collection.
// A nil meter falls back to the global meter provider.
// The source is read by the exporter goroutine, only its atomic stats are touched.
func RegisterRBTreeStats(meter metric.Meter, name string, source RBTreeStatsSource) (metric.Registration, error) {
	if source == nil {
		return nil, infra.NewErrorStack("[observability] nil rbtree stats source")
	}
	if meter == nil {
		meter = otel.Meter(
			meterName(name),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		)
	}

	nodes := lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"rbtree.nodes",
		metric.WithDescription(`The rbtree live nodes.`),
	))
	inserts := lo.Must[metric.Int64ObservableCounter](meter.Int64ObservableCounter(
		"rbtree.inserts",
		metric.WithDescription(`The rbtree accumulated insertions.`),
	))
	removes := lo.Must[metric.Int64ObservableCounter](meter.Int64ObservableCounter(
		"rbtree.removes",
		metric.WithDescription(`The rbtree accumulated removals.`),
	))
	rotations := lo.Must[metric.Int64ObservableCounter](meter.Int64ObservableCounter(
		"rbtree.rotations",
		metric.WithDescription(`The rbtree accumulated rotations of insert and remove rebalance.`),
	))

	attrs := metric.WithAttributes(attribute.String(rbtreeNameAttrKey, name))
	return meter.RegisterCallback(func(ctx context.Context, ob metric.Observer) error {
		stats := source.Stats()
		ob.ObserveInt64(nodes, stats.Nodes, attrs)
		ob.ObserveInt64(inserts, stats.Inserts, attrs)
		ob.ObserveInt64(removes, stats.Removes, attrs)
		ob.ObserveInt64(rotations, stats.Rotations, attrs)
		return nil
	}, nodes, inserts, removes, rotations)
}
