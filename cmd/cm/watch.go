package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/cinemap/internal/client"
	"github.com/alfredjeanlab/cinemap/internal/events"
	"github.com/alfredjeanlab/cinemap/internal/graph"
	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/ui"
)

// nodeSource returns the current node list.
type nodeSource func(ctx context.Context) ([]model.Node, error)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Print nodes as they are added, changed or removed",
	GroupID: "views",
	Args:    cobra.NoArgs,
	// Watch reloads the graph on every change instead of holding one
	// client open.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return loadSettings() },
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")
		view, _ := cmd.Flags().GetString("view")
		showEvents, _ := cmd.Flags().GetBool("events")
		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = cfg.Events.NATSURL
		}
		if showEvents && natsURL == "" {
			return fmt.Errorf("--events needs a NATS URL (--nats or CINEMAP_NATS_URL)")
		}

		src, closeSrc, err := watchSource(view)
		if err != nil {
			return err
		}
		defer closeSrc()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		seen := make(map[string]string)
		if err := queryAndPrint(ctx, src, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		if natsURL != "" {
			return watchNATS(ctx, natsURL, src, seen, showEvents)
		}
		return watchPoll(ctx, interval, src, seen)
	},
}

// watchSource reads through the server when --url is set. Otherwise it
// reloads the configured backend on each query so writes from other cm
// processes show up.
func watchSource(view string) (nodeSource, func(), error) {
	if remoteURL != "" {
		c := client.NewHTTPClient(remoteURL, authToken)
		return func(ctx context.Context) ([]model.Node, error) {
			return c.ListNodes(ctx, view)
		}, func() { c.Close() }, nil
	}

	backend, err := openBackend(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	src := func(ctx context.Context) ([]model.Node, error) {
		g := graph.New(ctx, backend,
			graph.WithLogger(logger),
			graph.WithKey(cfg.Storage.Key),
			graph.WithMode(cfg.Graph.Mode),
		)
		return client.NewLocalClient(g, nil).ListNodes(ctx, view)
	}
	return src, func() { backend.Close() }, nil
}

// watchNATS re-queries after graph events, debounced so a burst of
// mutations prints once. With showEvents it prints each event instead.
func watchNATS(ctx context.Context, natsURL string, src nodeSource, seen map[string]string, showEvents bool) error {
	// reconnectCh fires after a reconnect so events missed while
	// disconnected are picked up straight away.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(events.TopicAll)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			logger.Debug("graph event", "topic", msg.Topic)
			if showEvents {
				printEvent(msg)
				continue
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0)
		case <-debounce.C:
			if err := queryAndPrint(ctx, src, seen); err != nil {
				return err
			}
		}
	}
}

func watchPoll(ctx context.Context, interval time.Duration, src nodeSource, seen map[string]string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := queryAndPrint(ctx, src, seen); err != nil {
			return err
		}
	}
}

func queryAndPrint(ctx context.Context, src nodeSource, seen map[string]string) error {
	nodes, err := src(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("listing nodes: %w", err)
	}
	changed, removed := diffNodes(nodes, seen)
	if len(changed) == 0 && len(removed) == 0 {
		return nil
	}
	if jsonOutput {
		printJSON(map[string]any{"changed": changed, "removed": removed})
		return nil
	}
	if len(changed) > 0 {
		fmt.Println(renderNodeTable(changed))
	}
	for _, id := range removed {
		fmt.Printf("removed %s\n", id)
	}
	return nil
}

// diffNodes returns nodes that are new or differ from their last seen
// version, plus the IDs that disappeared. seen is updated in place.
func diffNodes(nodes []model.Node, seen map[string]string) ([]model.Node, []string) {
	var changed []model.Node
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
		fp := fingerprint(n)
		if prev, ok := seen[n.ID]; !ok || prev != fp {
			changed = append(changed, n)
		}
		seen[n.ID] = fp
	}
	var removed []string
	for id := range seen {
		if !present[id] {
			removed = append(removed, id)
			delete(seen, id)
		}
	}
	sort.Strings(removed)
	return changed, removed
}

func printEvent(msg events.Message) {
	if jsonOutput {
		fmt.Printf("{\"topic\":%q,\"data\":%s}\n", msg.Topic, msg.Data)
		return
	}
	fmt.Println(describeEvent(msg))
}

// describeEvent renders one bus message as a single line.
func describeEvent(msg events.Message) string {
	ev, err := msg.Decode()
	if err != nil {
		return fmt.Sprintf("%s (undecodable: %v)", msg.Topic, err)
	}
	topic := strings.TrimPrefix(msg.Topic, "cinemap.")
	switch e := ev.(type) {
	case *events.NodeCreated:
		return fmt.Sprintf("%s %s %s", topic, e.Node.ID, ui.RenderNode(e.Node))
	case *events.NodeUpdated:
		return fmt.Sprintf("%s %s [%s]", topic, e.Node.ID, strings.Join(e.Fields, ", "))
	case *events.NodeDeleted:
		return fmt.Sprintf("%s %s (%d connections)", topic, e.NodeID, len(e.ConnectionIDs))
	case *events.ConnectionAdded:
		return fmt.Sprintf("%s %s %s -> %s", topic, e.Connection.ID, e.Connection.From, e.Connection.To)
	case *events.ConnectionDeleted:
		return fmt.Sprintf("%s %s", topic, e.ConnectionID)
	case *events.GraphReset:
		return fmt.Sprintf("%s %d nodes, %d connections", topic, e.Nodes, e.Connections)
	case *events.ModeChanged:
		return fmt.Sprintf("%s %s -> %s", topic, e.From, e.To)
	}
	return topic
}

func fingerprint(n model.Node) string {
	data, _ := json.Marshal(n)
	return string(data)
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval when NATS is not configured")
	watchCmd.Flags().Bool("once", false, "exit after the first query")
	watchCmd.Flags().String("view", client.ViewAll, "which nodes to watch (all, filtered, visible, unclear)")
	watchCmd.Flags().String("nats", "", "NATS URL (default from config)")
	watchCmd.Flags().Bool("events", false, "print each graph event instead of node changes")
}
