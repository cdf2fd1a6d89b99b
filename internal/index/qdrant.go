package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"awsml-tutor/internal/model"
)

const (
	payloadText       = "text"
	payloadChunkIndex = "chunk_index"
	payloadMetadata   = "metadata"

	// RegistryCollection holds one point per document collection carrying
	// the embedding model that built it.
	RegistryCollection = "awsml_tutor_registry"

	payloadCollection     = "collection"
	payloadEmbeddingModel = "embedding_model"
	payloadDimension      = "dimension"
)

// QdrantStore keeps each collection as a Qdrant collection with cosine
// distance. Qdrant has no field for the embedding model, so it is kept in
// RegistryCollection keyed by collection name.
type QdrantStore struct {
	conn        *grpc.ClientConn
	points      qdrant.PointsClient
	collections qdrant.CollectionsClient
}

func NewQdrantStore(conn *grpc.ClientConn) *QdrantStore {
	return &QdrantStore{
		conn:        conn,
		points:      qdrant.NewPointsClient(conn),
		collections: qdrant.NewCollectionsClient(conn),
	}
}

func (s *QdrantStore) Collection(ctx context.Context, name string) (*CollectionInfo, error) {
	size, found, err := s.vectorSize(ctx, name)
	if err != nil || !found {
		return nil, err
	}
	info := &CollectionInfo{Name: name, Dimension: int(size)}

	resp, err := s.points.Get(ctx, &qdrant.GetPoints{
		CollectionName: RegistryCollection,
		Ids:            []*qdrant.PointId{registryID(name)},
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
	})
	if status.Code(err) == codes.NotFound {
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get qdrant registry entry failed: %w", err)
	}
	for _, p := range resp.GetResult() {
		info.EmbeddingModel = p.GetPayload()[payloadEmbeddingModel].GetStringValue()
	}
	return info, nil
}

func (s *QdrantStore) EnsureCollection(ctx context.Context, info CollectionInfo) error {
	existing, err := s.Collection(ctx, info.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		if err := checkCompatible(*existing, info); err != nil {
			return err
		}
		if existing.EmbeddingModel == "" && info.EmbeddingModel != "" {
			return s.register(ctx, info)
		}
		return nil
	}
	if err := s.createCollection(ctx, info.Name, uint64(info.Dimension)); err != nil {
		return err
	}
	return s.register(ctx, info)
}

// vectorSize reports the vector size of a collection and whether it exists.
func (s *QdrantStore) vectorSize(ctx context.Context, name string) (uint64, bool, error) {
	resp, err := s.collections.Get(ctx, &qdrant.GetCollectionInfoRequest{CollectionName: name})
	if status.Code(err) == codes.NotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get qdrant collection failed: %w", err)
	}
	return resp.GetResult().GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize(), true, nil
}

func (s *QdrantStore) createCollection(ctx context.Context, name string, size uint64) error {
	_, err := s.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     size,
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create qdrant collection %s failed: %w", name, err)
	}
	return nil
}

// register upserts the registry point for info.Name.
func (s *QdrantStore) register(ctx context.Context, info CollectionInfo) error {
	if _, found, err := s.vectorSize(ctx, RegistryCollection); err != nil {
		return err
	} else if !found {
		if err := s.createCollection(ctx, RegistryCollection, 1); err != nil {
			return err
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: RegistryCollection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{{
			Id:      registryID(info.Name),
			Vectors: qdrant.NewVectors(1),
			Payload: map[string]*qdrant.Value{
				payloadCollection:     {Kind: &qdrant.Value_StringValue{StringValue: info.Name}},
				payloadEmbeddingModel: {Kind: &qdrant.Value_StringValue{StringValue: info.EmbeddingModel}},
				payloadDimension:      {Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(info.Dimension)}},
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("register qdrant collection %s failed: %w", info.Name, err)
	}
	return nil
}

func registryID(collection string) *qdrant.PointId {
	return qdrant.NewID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("awsml-tutor/collection/"+collection)).String())
}

func (s *QdrantStore) Insert(ctx context.Context, collection string, entries []model.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	points := make([]*qdrant.PointStruct, len(entries))
	for i := range entries {
		e := &entries[i]
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(e.ChunkID),
			Vectors: qdrant.NewVectors(e.EmbeddingVector()...),
			Payload: map[string]*qdrant.Value{
				payloadText:       {Kind: &qdrant.Value_StringValue{StringValue: e.Text}},
				payloadChunkIndex: {Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(e.ChunkIndex)}},
				payloadMetadata:   {Kind: &qdrant.Value_StringValue{StringValue: e.Metadata}},
			},
		}
	}

	wait := true
	resp, err := s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert qdrant points failed: %w", err)
	}
	st := resp.GetResult().GetStatus()
	if st != qdrant.UpdateStatus_Acknowledged && st != qdrant.UpdateStatus_Completed {
		return fmt.Errorf("upsert qdrant points returned status %s", st)
	}
	return nil
}

func (s *QdrantStore) Count(ctx context.Context, collection string) (int, error) {
	exact := true
	resp, err := s.points.Count(ctx, &qdrant.CountPoints{CollectionName: collection, Exact: &exact})
	if status.Code(err) == codes.NotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count qdrant points failed: %w", err)
	}
	return int(resp.GetResult().GetCount()), nil
}

func (s *QdrantStore) Search(ctx context.Context, collection string, vector []float32, k int) ([]model.RetrievalResult, error) {
	resp, err := s.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: collection,
		Vector:         vector,
		Limit:          uint64(k),
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
	})
	if status.Code(err) == codes.NotFound {
		return []model.RetrievalResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search qdrant points failed: %w", err)
	}

	results := make([]model.RetrievalResult, 0, len(resp.GetResult()))
	for _, p := range resp.GetResult() {
		meta := map[string]string{}
		if raw := p.GetPayload()[payloadMetadata].GetStringValue(); raw != "" {
			if err := json.Unmarshal([]byte(raw), &meta); err != nil {
				return nil, fmt.Errorf("decode qdrant payload failed: %w", err)
			}
		}
		results = append(results, model.RetrievalResult{
			Text:     p.GetPayload()[payloadText].GetStringValue(),
			Metadata: meta,
			Score:    p.GetScore(),
		})
	}
	return results, nil
}

func (s *QdrantStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
