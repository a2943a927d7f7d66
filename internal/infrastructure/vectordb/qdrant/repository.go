// Package qdrant provides a VectorDB implementation using Qdrant.
package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/civistack/canvass/internal/domain/entities"
	"github.com/civistack/canvass/internal/infrastructure/config"
)

// Repository implements the VectorDB interface using Qdrant.
type Repository struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	collection string
	conn       *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig) (*Repository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Repository{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
		conn:       conn,
	}, nil
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// EnsureCollection creates the collection if it doesn't exist.
func (r *Repository) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// DeleteCollection removes the collection.
func (r *Repository) DeleteCollection(ctx context.Context) error {
	_, err := r.client.Delete(ctx, &pb.DeleteCollection{
		CollectionName: r.collection,
	})
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}

	return nil
}

// Save stores a document with its embedding.
func (r *Repository) Save(ctx context.Context, doc *entities.Document) error {
	return r.SaveBatch(ctx, []entities.Document{*doc})
}

// SaveBatch stores multiple documents.
func (r *Repository) SaveBatch(ctx context.Context, docs []entities.Document) error {
	points := make([]*pb.PointStruct, 0, len(docs))

	for _, doc := range docs {
		pointID := doc.ID
		if pointID == "" {
			pointID = uuid.New().String()
		}

		point := &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{
					Uuid: pointID,
				},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{
						Data: doc.Embedding,
					},
				},
			},
			Payload: map[string]*pb.Value{
				"title":      {Kind: &pb.Value_StringValue{StringValue: doc.Title}},
				"text":       {Kind: &pb.Value_StringValue{StringValue: doc.Text}},
				"source":     {Kind: &pb.Value_StringValue{StringValue: doc.Source}},
				"created_at": {Kind: &pb.Value_StringValue{StringValue: doc.CreatedAt.Format(time.RFC3339)}},
			},
		}
		points = append(points, point)
	}

	_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}

	return nil
}

// FindByID retrieves a document by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (entities.Document, error) {
	resp, err := r.points.Get(ctx, &pb.GetPoints{
		CollectionName: r.collection,
		Ids: []*pb.PointId{
			{PointIdOptions: &pb.PointId_Uuid{Uuid: id}},
		},
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
		WithVectors: &pb.WithVectorsSelector{
			SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return entities.Document{}, fmt.Errorf("getting point: %w", err)
	}

	if len(resp.Result) == 0 {
		return entities.Document{}, fmt.Errorf("document not found: %s", id)
	}

	return pointToDocument(resp.Result[0]), nil
}

// Search returns the documents most similar to the embedding.
func (r *Repository) Search(ctx context.Context, embedding []float32, limit int) ([]entities.Document, error) {
	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         embedding,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
		WithVectors: &pb.WithVectorsSelector{
			SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: false},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	return scoredPointsToDocuments(resp.Result), nil
}

// Delete removes a document by its ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Uuid{Uuid: id}},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting point: %w", err)
	}

	return nil
}

// Count returns the total number of documents.
func (r *Repository) Count(ctx context.Context) (uint64, error) {
	resp, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("getting collection info: %w", err)
	}

	if resp.Result.PointsCount == nil {
		return 0, nil
	}

	return *resp.Result.PointsCount, nil
}

// pointToDocument converts a Qdrant point to a Document entity.
func pointToDocument(point *pb.RetrievedPoint) entities.Document {
	id := ""
	if u := point.Id.GetUuid(); u != "" {
		id = u
	}

	payload := point.Payload
	var embedding []float32
	if vec := point.Vectors.GetVector(); vec != nil {
		embedding = vec.Data
	}

	doc := entities.Document{
		ID:        id,
		Title:     getStringValue(payload, "title"),
		Text:      getStringValue(payload, "text"),
		Source:    getStringValue(payload, "source"),
		Embedding: embedding,
	}
	if created, err := time.Parse(time.RFC3339, getStringValue(payload, "created_at")); err == nil {
		doc.CreatedAt = created
	}

	return doc
}

// scoredPointsToDocuments converts scored points to documents.
func scoredPointsToDocuments(points []*pb.ScoredPoint) []entities.Document {
	docs := make([]entities.Document, 0, len(points))

	for _, point := range points {
		id := ""
		if u := point.Id.GetUuid(); u != "" {
			id = u
		}

		payload := point.Payload
		doc := entities.Document{
			ID:     id,
			Title:  getStringValue(payload, "title"),
			Text:   getStringValue(payload, "text"),
			Source: getStringValue(payload, "source"),
		}
		if created, err := time.Parse(time.RFC3339, getStringValue(payload, "created_at")); err == nil {
			doc.CreatedAt = created
		}
		docs = append(docs, doc)
	}

	return docs
}

func getStringValue(payload map[string]*pb.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
