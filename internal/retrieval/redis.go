package retrieval

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/jurislens-poc/server/internal/core/error"
	logx "github.com/jurislens-poc/server/pkg/logger"
)

const (
	fieldContent  = "content"
	fieldSource   = "source"
	fieldPage     = "page"
	fieldVector   = "embedding"
	fieldDistance = "vector_distance"
)

// RedisIndex is a Retriever backed by a Redis Stack vector index
// (FT.SEARCH KNN over HNSW) with vectors from an Embedder.
type RedisIndex struct {
	rdb        *redis.Client
	embedder   *Embedder
	index      string
	dimensions int
	timeout    time.Duration
}

// RedisIndexConfig holds the vector index settings.
type RedisIndexConfig struct {
	IndexName  string
	Dimensions int
	Timeout    time.Duration
}

// NewRedisIndex creates the retriever and ensures the index exists. Index
// creation failure is returned; the caller decides whether to run without a
// remote backend.
func NewRedisIndex(ctx context.Context, rdb *redis.Client, embedder *Embedder, cfg RedisIndexConfig) (*RedisIndex, error) {
	r := &RedisIndex{
		rdb:        rdb,
		embedder:   embedder,
		index:      cfg.IndexName,
		dimensions: cfg.Dimensions,
		timeout:    cfg.Timeout,
	}
	if r.timeout <= 0 {
		r.timeout = 5 * time.Second
	}
	if err := r.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RedisIndex) ensureIndex(ctx context.Context) error {
	err := r.rdb.FTCreate(ctx, r.index,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []any{r.docPrefix()},
		},
		&redis.FieldSchema{FieldName: fieldContent, FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: fieldSource, FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: fieldPage, FieldType: redis.SearchFieldTypeNumeric},
		&redis.FieldSchema{
			FieldName: fieldVector,
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				HNSWOptions: &redis.FTHNSWOptions{
					Type:           "FLOAT32",
					Dim:            r.dimensions,
					DistanceMetric: "COSINE",
				},
			},
		},
	).Err()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil
		}
		return errx.BackendUnavailable(err, "vector index creation failed")
	}
	logx.Info().Str("index", r.index).Msg("Created vector index")
	return nil
}

func (r *RedisIndex) docPrefix() string {
	return r.index + ":chunk:"
}

// Index embeds and writes the chunks of one source under sequential keys.
func (r *RedisIndex) Index(ctx context.Context, source string, page int, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	vectors, err := r.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return err
	}

	base, err := r.rdb.Incr(ctx, r.index+":seq").Result()
	if err != nil {
		return errx.BackendUnavailable(err, "chunk id allocation failed")
	}

	pipe := r.rdb.Pipeline()
	for i, chunk := range chunks {
		key := fmt.Sprintf("%s%d:%d", r.docPrefix(), base, i)
		pipe.HSet(ctx, key, map[string]any{
			fieldContent: chunk,
			fieldSource:  source,
			fieldPage:    page,
			fieldVector:  vectorBlob(vectors[i]),
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errx.BackendUnavailable(err, "chunk indexing failed")
	}
	return nil
}

// Query embeds the text and runs a KNN search, mapping cosine distance to a
// relevance score in [0,1].
func (r *RedisIndex) Query(ctx context.Context, text string, k int) ([]Hit, error) {
	if k <= 0 {
		k = 3
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	vector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("*=>[KNN %d @%s $vec AS %s]", k, fieldVector, fieldDistance)
	res, err := r.rdb.FTSearchWithArgs(ctx, r.index, query, &redis.FTSearchOptions{
		Return: []redis.FTSearchReturn{
			{FieldName: fieldContent},
			{FieldName: fieldSource},
			{FieldName: fieldPage},
			{FieldName: fieldDistance},
		},
		SortBy:         []redis.FTSearchSortBy{{FieldName: fieldDistance, Asc: true}},
		LimitOffset:    0,
		Limit:          k,
		Params:         map[string]any{"vec": vectorBlob(vector)},
		DialectVersion: 2,
	}).Result()
	if err != nil {
		return nil, errx.BackendUnavailable(err, "vector search failed")
	}

	hits := make([]Hit, 0, len(res.Docs))
	for _, doc := range res.Docs {
		hits = append(hits, docToHit(doc.Fields))
	}
	return hits, nil
}

func docToHit(fields map[string]string) Hit {
	h := Hit{
		Content: fields[fieldContent],
		Source:  fields[fieldSource],
		Page:    -1,
	}
	if v, err := strconv.Atoi(fields[fieldPage]); err == nil {
		h.Page = v
	}
	if d, err := strconv.ParseFloat(fields[fieldDistance], 64); err == nil {
		h.Score = distanceToRelevance(d)
	}
	return h
}

// distanceToRelevance maps cosine distance to a similarity score clamped to
// [0,1].
func distanceToRelevance(dist float64) float64 {
	score := 1.0 - dist
	return math.Max(0.0, math.Min(1.0, score))
}

func vectorBlob(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
