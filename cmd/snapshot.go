package main

import (
	"context"

	"github.com/urbanlab/settlement-cli/internal/framework"
	"github.com/urbanlab/settlement-cli/internal/store"
)

// resolveSnapshot fetches a snapshot by ID, or the region's latest when the
// ID is empty.
func resolveSnapshot(ctx context.Context, st store.Store, id string) (*store.Snapshot, error) {
	if id != "" {
		return st.GetSnapshot(ctx, id)
	}
	return st.LatestSnapshot(ctx, cfg.Region)
}

// loadModel fetches a snapshot and decodes its framework model.
func loadModel(ctx context.Context, st store.Store, id string) (*store.Snapshot, *framework.Model, error) {
	snap, err := resolveSnapshot(ctx, st, id)
	if err != nil {
		return nil, nil, err
	}
	m, err := framework.DecodeModel(snap.Payload)
	if err != nil {
		return nil, nil, err
	}
	return snap, m, nil
}
