// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package qdrant mirrors a tree's node embeddings into Qdrant, for
// approximate nearest-neighbor search over very large flattened-layer
// candidate sets (§6). Optional enrichment backend: the retriever's
// exact cosine scoring in pkg/retrieval remains the default path.
package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"finrag/pkg/treemodel"
)

// nodeIDNamespace is a fixed namespace UUID used to derive stable
// Qdrant point UUIDs from node IDs, which are not themselves UUIDs.
var nodeIDNamespace = uuid.MustParse("7a3e5b6e-9e2f-4b8a-9c7d-1f6e2a8b4c3d")

// deterministicUUID derives a stable UUID for a node ID so repeated
// upserts of the same node overwrite rather than duplicate its point.
func deterministicUUID(nodeID string) string {
	return uuid.NewSHA1(nodeIDNamespace, []byte(nodeID)).String()
}

// Mirror upserts tree node embeddings into a Qdrant collection.
type Mirror struct {
	points      pb.PointsClient
	collections pb.CollectionsClient
	conn        *grpc.ClientConn
	collection  string
}

// NewMirror connects to a Qdrant instance at address (e.g.
// "localhost:6334").
func NewMirror(address, collection string) (*Mirror, error) {
	if address == "" {
		return nil, fmt.Errorf("qdrant: address is required")
	}
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant: connect: %w", err)
	}
	return &Mirror{
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		conn:        conn,
		collection:  collection,
	}, nil
}

// EnsureCollection creates the mirror's collection with cosine
// distance and the given embedding dimension, if it doesn't exist.
func (m *Mirror) EnsureCollection(ctx context.Context, dimension int) error {
	_, err := m.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: m.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection: %w", err)
	}
	return nil
}

// Upsert mirrors every node in tree as a Qdrant point keyed by its
// deterministic node id, carrying level and parent linkage as payload.
func (m *Mirror) Upsert(ctx context.Context, tree *treemodel.Tree) error {
	nodes := tree.AllNodes()
	points := make([]*pb.PointStruct, 0, len(nodes))

	for _, n := range nodes {
		payload := map[string]*pb.Value{
			"node_id": {Kind: &pb.Value_StringValue{StringValue: n.ID}},
			"level":   {Kind: &pb.Value_IntegerValue{IntegerValue: int64(n.Level)}},
		}
		points = append(points, &pb.PointStruct{
			Id: &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: deterministicUUID(n.ID)}},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: n.Embedding}},
			},
			Payload: payload,
		})
	}

	if len(points) == 0 {
		return nil
	}
	_, err := m.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: m.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert: %w", err)
	}
	return nil
}

// Close closes the underlying gRPC connection.
func (m *Mirror) Close() error {
	return m.conn.Close()
}
