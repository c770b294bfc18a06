package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/analytics"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/models"
)

// startMongo levanta un MongoDB real; se salta sin Docker o con -short
func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("Failed to start MongoDB container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	conn, err := database.Connect(database.Config{URI: uri, Database: "storefront_test"}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, database.EnsureIndexes(ctx, conn.Database()))
	return conn.Database()
}

func fixedID(n byte) primitive.ObjectID {
	id := primitive.ObjectID{0x65, 0xf0}
	id[11] = n
	return id
}

var (
	seedU1 = fixedID(0x01)
	seedU2 = fixedID(0x02)

	seedC1 = fixedID(0x21)
	seedC2 = fixedID(0x22)
	seedC9 = fixedID(0x29) // sin documento

	seedP1 = fixedID(0x11)
	seedP2 = fixedID(0x12)
	seedP3 = fixedID(0x13) // categoría inexistente
	seedP9 = fixedID(0x19) // producto borrado

	seedDay = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func seedAnalytics(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx := context.Background()

	insert := func(collection string, docs ...interface{}) {
		_, err := db.Collection(collection).InsertMany(ctx, docs)
		require.NoError(t, err, collection)
	}

	insert(database.CategoriesCollection,
		models.Category{ID: seedC1, Name: "C1"},
		models.Category{ID: seedC2, Name: "C2"},
	)
	insert(database.ProductsCollection,
		models.Product{ID: seedP1, Name: "Shirt", Category: seedC1, Images: []string{"p1-a.png", "p1-b.png"}},
		models.Product{ID: seedP2, Name: "Mug", Category: seedC2, Images: []string{}},
		models.Product{ID: seedP3, Name: "Poster", Category: seedC9, Images: []string{"p3.png"}},
	)

	orderDoc := func(n byte, user primitive.ObjectID, at time.Time, items ...models.OrderItem) interface{} {
		o := models.Order{ID: fixedID(0x40 + n), User: user, Items: items, OrderDate: at, Status: models.OrderStatusPending}
		o.TotalAmount = o.ComputeTotal()
		return o
	}
	line := func(p primitive.ObjectID, qty int, price float64) models.OrderItem {
		return models.OrderItem{Product: p, Variant: "M", Quantity: qty, Price: price}
	}
	insert(database.OrdersCollection,
		orderDoc(1, seedU1, seedDay, line(seedP1, 3, 10)),
		orderDoc(2, seedU1, seedDay.Add(time.Hour), line(seedP1, 2, 10), line(seedP9, 50, 1)),
		orderDoc(3, seedU2, seedDay, line(seedP2, 5, 4), line(seedP3, 5, 7)),
		orderDoc(4, seedU1, seedDay.Add(time.Hour), line(seedP2, 0, 4)),
	)

	insert(database.ReviewsCollection,
		models.Review{ID: fixedID(0x61), Product: seedP1, User: seedU1, Rating: 4},
		models.Review{ID: fixedID(0x62), Product: seedP1, User: seedU2, Rating: 2},
		models.Review{ID: fixedID(0x63), Product: seedP2, User: seedU1, Rating: 5},
		models.Review{ID: fixedID(0x64), Product: seedP3, User: seedU1, Rating: 3},
		models.Review{ID: fixedID(0x65), Product: seedP9, User: seedU2, Rating: 1},
	)
}

func TestAnalyticsRepository_Integration(t *testing.T) {
	db := startMongo(t)
	seedAnalytics(t, db)

	native := NewAnalyticsRepository(
		NewOrderRepository(db.Collection(database.OrdersCollection)),
		NewReviewRepository(db.Collection(database.ReviewsCollection)),
		NewProductRepository(db.Collection(database.ProductsCollection)),
		NewCategoryRepository(db.Collection(database.CategoriesCollection)),
	)
	inMemory := analytics.NewService(native)
	ctx := context.Background()

	t.Run("best sellers", func(t *testing.T) {
		got, err := native.BestSellers(ctx, 0)
		require.NoError(t, err)

		// P9 desaparece en la unión; empate a 5 resuelto por id ascendente
		assert.Equal(t, []models.BestSeller{
			{ProductID: seedP1, ProductName: "Shirt", ProductImage: "p1-a.png", TotalSold: 5},
			{ProductID: seedP2, ProductName: "Mug", TotalSold: 5},
			{ProductID: seedP3, ProductName: "Poster", ProductImage: "p3.png", TotalSold: 5},
		}, got)

		want, err := inMemory.BestSellers(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("best sellers limit after join", func(t *testing.T) {
		got, err := native.BestSellers(ctx, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, seedP1, got[0].ProductID)

		want, err := inMemory.BestSellers(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("category ratings", func(t *testing.T) {
		got, err := native.CategoryRatings(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, models.CategoryRating{CategoryName: "C2", AverageRating: 5, TotalReviews: 1}, got[0])
		assert.Equal(t, models.CategoryRating{CategoryName: "C1", AverageRating: 3, TotalReviews: 2}, got[1])

		want, err := inMemory.CategoryRatings(ctx)
		require.NoError(t, err)
		require.Len(t, want, len(got))
		for i := range want {
			assert.Equal(t, want[i].CategoryName, got[i].CategoryName)
			assert.Equal(t, want[i].TotalReviews, got[i].TotalReviews)
			assert.InDelta(t, want[i].AverageRating, got[i].AverageRating, 1e-9)
		}
	})

	t.Run("order history", func(t *testing.T) {
		got, err := native.OrderHistory(ctx, seedU1.Hex())
		require.NoError(t, err)

		// mismo orderDate: desempate por _id descendente
		require.Len(t, got, 3)
		assert.Equal(t, fixedID(0x44), got[0].ID)
		assert.Equal(t, fixedID(0x42), got[1].ID)
		assert.Equal(t, fixedID(0x41), got[2].ID)

		items := got[1].Items
		require.Len(t, items, 2)
		require.NotNil(t, items[0].Product)
		assert.Equal(t, "Shirt", items[0].Product.Name)
		assert.Nil(t, items[1].Product)
		assert.Equal(t, seedP9, items[1].ProductID)
		assert.Equal(t, 50, items[1].Quantity)

		want, err := inMemory.OrderHistory(ctx, seedU1.Hex())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("unknown users", func(t *testing.T) {
		for _, user := range []string{"unknown-user", primitive.NewObjectID().Hex()} {
			got, err := native.OrderHistory(ctx, user)
			require.NoError(t, err)
			assert.Empty(t, got)

			want, err := inMemory.OrderHistory(ctx, user)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})
}

func TestProductRepository_AddRatingConcurrent(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()
	products := NewProductRepository(db.Collection(database.ProductsCollection))

	p := &models.Product{Name: "Taza", Category: seedC1}
	require.NoError(t, products.Create(ctx, p))

	ratings := []float64{5, 4, 3, 5, 4, 1, 2, 5, 3, 4}
	var wg sync.WaitGroup
	for _, rating := range ratings {
		wg.Add(1)
		go func(rating float64) {
			defer wg.Done()
			assert.NoError(t, products.AddRating(ctx, p.ID, rating))
		}(rating)
	}
	wg.Wait()

	var stored models.Product
	require.NoError(t, db.Collection(database.ProductsCollection).FindOne(ctx, bson.M{"_id": p.ID}).Decode(&stored))
	assert.Equal(t, len(ratings), stored.ReviewsCount)
	assert.InDelta(t, 3.6, stored.Rating, 1e-9)

	assert.ErrorIs(t, products.AddRating(ctx, primitive.NewObjectID(), 5), ErrNotFound)
}
