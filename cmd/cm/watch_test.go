package main

import (
	"strings"
	"testing"

	"github.com/alfredjeanlab/cinemap/internal/events"
	"github.com/alfredjeanlab/cinemap/internal/model"
)

func TestDiffNodes_InitialQuery(t *testing.T) {
	seen := make(map[string]string)
	nodes := []model.Node{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}

	changed, removed := diffNodes(nodes, seen)
	if len(changed) != 2 {
		t.Fatalf("got %d changed, want 2", len(changed))
	}
	if len(removed) != 0 {
		t.Fatalf("got %d removed, want 0", len(removed))
	}
	if len(seen) != 2 {
		t.Fatalf("got %d seen, want 2", len(seen))
	}
}

func TestDiffNodes_NoChanges(t *testing.T) {
	nodes := []model.Node{{ID: "a", Title: "A"}}
	seen := make(map[string]string)
	diffNodes(nodes, seen)

	changed, removed := diffNodes(nodes, seen)
	if len(changed) != 0 || len(removed) != 0 {
		t.Fatalf("got %d changed, %d removed, want none", len(changed), len(removed))
	}
}

func TestDiffNodes_EditedNode(t *testing.T) {
	seen := make(map[string]string)
	diffNodes([]model.Node{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}, seen)

	changed, _ := diffNodes([]model.Node{{ID: "a", Title: "A"}, {ID: "b", Title: "B2"}}, seen)
	if len(changed) != 1 {
		t.Fatalf("got %d changed, want 1", len(changed))
	}
	if changed[0].ID != "b" {
		t.Errorf("got changed[0].ID=%q, want %q", changed[0].ID, "b")
	}
}

func TestDiffNodes_RemovedNodes(t *testing.T) {
	seen := make(map[string]string)
	diffNodes([]model.Node{{ID: "c"}, {ID: "a"}, {ID: "b"}}, seen)

	_, removed := diffNodes([]model.Node{{ID: "b"}}, seen)
	if len(removed) != 2 || removed[0] != "a" || removed[1] != "c" {
		t.Fatalf("removed = %v, want [a c]", removed)
	}
	if _, ok := seen["a"]; ok {
		t.Error("removed node still in seen")
	}
}

func TestDescribeEvent(t *testing.T) {
	tests := []struct {
		msg  events.Message
		want string
	}{
		{events.Message{Topic: events.TopicNodeCreated, Data: []byte(`{"node":{"id":"p","layer":"storytelling","title":"Premise"}}`)}, "node.created p"},
		{events.Message{Topic: events.TopicNodeUpdated, Data: []byte(`{"node":{"id":"p"},"fields":["title","unclear"]}`)}, "node.updated p [title, unclear]"},
		{events.Message{Topic: events.TopicNodeDeleted, Data: []byte(`{"node_id":"p","connection_ids":["c1","c2"]}`)}, "node.deleted p (2 connections)"},
		{events.Message{Topic: events.TopicConnectionAdded, Data: []byte(`{"connection":{"id":"c1","from":"a","to":"b"}}`)}, "connection.added c1 a -> b"},
		{events.Message{Topic: events.TopicModeChanged, Data: []byte(`{"from":"explore","to":"build"}`)}, "mode.changed explore -> build"},
		{events.Message{Topic: "cinemap.other", Data: []byte(`{}`)}, "cinemap.other (undecodable"},
	}
	for _, tt := range tests {
		if got := describeEvent(tt.msg); !strings.HasPrefix(got, tt.want) {
			t.Errorf("describeEvent(%s) = %q, want prefix %q", tt.msg.Topic, got, tt.want)
		}
	}
}
