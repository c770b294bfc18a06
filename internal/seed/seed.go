// Package seed carga datos de ejemplo desde un fichero YAML.
//
// Las referencias entre documentos usan claves simbólicas ("u1", "camiseta").
// Una clave con forma de ObjectID se usa tal cual, aunque no exista ningún
// documento con ese id; así se pueden sembrar referencias huérfanas.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v3"

	"storefront/internal/database"
	"storefront/internal/models"
)

type Fixture struct {
	Users      []UserFixture     `yaml:"users"`
	Categories []CategoryFixture `yaml:"categories"`
	Products   []ProductFixture  `yaml:"products"`
	Orders     []OrderFixture    `yaml:"orders"`
	Reviews    []ReviewFixture   `yaml:"reviews"`
	Posts      []PostFixture     `yaml:"posts"`
	Comments   []CommentFixture  `yaml:"comments"`
}

type UserFixture struct {
	Key      string          `yaml:"key"`
	Username string          `yaml:"username"`
	Email    string          `yaml:"email"`
	IsAdmin  bool            `yaml:"isAdmin"`
	Address  *models.Address `yaml:"address"`
}

type CategoryFixture struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type ProductFixture struct {
	Key         string           `yaml:"key"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Category    string           `yaml:"category"`
	Variants    []models.Variant `yaml:"variants"`
	Images      []string         `yaml:"images"`
}

type ItemFixture struct {
	Product  string  `yaml:"product"`
	Variant  string  `yaml:"variant"`
	Quantity int     `yaml:"quantity"`
	Price    float64 `yaml:"price"`
}

type OrderFixture struct {
	Key       string        `yaml:"key"`
	User      string        `yaml:"user"`
	Items     []ItemFixture `yaml:"items"`
	OrderDate time.Time     `yaml:"orderDate"`
	Status    string        `yaml:"status"`
}

type ReviewFixture struct {
	Product string  `yaml:"product"`
	User    string  `yaml:"user"`
	Rating  float64 `yaml:"rating"`
	Comment string  `yaml:"comment"`
}

type PostFixture struct {
	Key     string `yaml:"key"`
	Author  string `yaml:"author"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

type CommentFixture struct {
	Post    string `yaml:"post"`
	User    string `yaml:"user"`
	Content string `yaml:"content"`
}

// Documents son los documentos listos para insertar, por colección
type Documents struct {
	Users      []models.User
	Categories []models.Category
	Products   []models.Product
	Orders     []models.Order
	Reviews    []models.Review
	Posts      []models.Post
	Comments   []models.Comment
}

// ReadFile lee y decodifica un fixture
func ReadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

type keys map[string]primitive.ObjectID

// define registra una clave nueva
func (k keys) define(kind, key string) (primitive.ObjectID, error) {
	if key == "" {
		return primitive.NewObjectID(), nil
	}
	if _, dup := k[key]; dup {
		return primitive.NilObjectID, fmt.Errorf("%s %q defined twice", kind, key)
	}
	id, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		id = primitive.NewObjectID()
	}
	k[key] = id
	return id, nil
}

// ref resuelve una referencia; los ObjectID literales no necesitan estar definidos
func (k keys) ref(kind, key string) (primitive.ObjectID, error) {
	if id, ok := k[key]; ok {
		return id, nil
	}
	if id, err := primitive.ObjectIDFromHex(key); err == nil {
		return id, nil
	}
	return primitive.NilObjectID, fmt.Errorf("unknown %s %q", kind, key)
}

// Build resuelve las claves y calcula los campos derivados: total de cada
// pedido y rating/reviewsCount de cada producto.
func Build(f *Fixture, now time.Time) (*Documents, error) {
	docs := &Documents{}
	users, categories, products, posts := keys{}, keys{}, keys{}, keys{}

	for _, u := range f.Users {
		id, err := users.define("user", u.Key)
		if err != nil {
			return nil, err
		}
		docs.Users = append(docs.Users, models.User{
			ID:        id,
			Username:  u.Username,
			Email:     u.Email,
			IsAdmin:   u.IsAdmin,
			Address:   u.Address,
			CreatedAt: now,
		})
	}

	for _, c := range f.Categories {
		id, err := categories.define("category", c.Key)
		if err != nil {
			return nil, err
		}
		docs.Categories = append(docs.Categories, models.Category{ID: id, Name: c.Name, Description: c.Description})
	}

	for _, p := range f.Products {
		id, err := products.define("product", p.Key)
		if err != nil {
			return nil, err
		}
		category, err := categories.ref("category", p.Category)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", p.Name, err)
		}
		variants, images := p.Variants, p.Images
		if variants == nil {
			variants = []models.Variant{}
		}
		if images == nil {
			images = []string{}
		}
		docs.Products = append(docs.Products, models.Product{
			ID:          id,
			Name:        p.Name,
			Description: p.Description,
			Category:    category,
			Variants:    variants,
			Images:      images,
			CreatedAt:   now,
		})
	}

	orders := keys{}
	for _, o := range f.Orders {
		id, err := orders.define("order", o.Key)
		if err != nil {
			return nil, err
		}
		user, err := users.ref("user", o.User)
		if err != nil {
			return nil, fmt.Errorf("order %q: %w", o.Key, err)
		}

		order := models.Order{ID: id, User: user, OrderDate: o.OrderDate, Status: models.OrderStatusPending}
		if order.OrderDate.IsZero() {
			order.OrderDate = now
		}
		if o.Status != "" {
			if order.Status, err = models.ParseOrderStatus(o.Status); err != nil {
				return nil, fmt.Errorf("order %q: %w", o.Key, err)
			}
		}
		for _, it := range o.Items {
			product, err := products.ref("product", it.Product)
			if err != nil {
				return nil, fmt.Errorf("order %q: %w", o.Key, err)
			}
			order.Items = append(order.Items, models.OrderItem{
				Product:  product,
				Variant:  it.Variant,
				Quantity: it.Quantity,
				Price:    it.Price,
			})
		}
		order.TotalAmount = order.ComputeTotal()
		docs.Orders = append(docs.Orders, order)
	}

	type ratingSum struct {
		sum   float64
		count int
	}
	ratings := map[primitive.ObjectID]*ratingSum{}
	for _, r := range f.Reviews {
		product, err := products.ref("product", r.Product)
		if err != nil {
			return nil, fmt.Errorf("review: %w", err)
		}
		user, err := users.ref("user", r.User)
		if err != nil {
			return nil, fmt.Errorf("review: %w", err)
		}
		docs.Reviews = append(docs.Reviews, models.Review{
			ID:        primitive.NewObjectID(),
			Product:   product,
			User:      user,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: now,
		})
		if ratings[product] == nil {
			ratings[product] = &ratingSum{}
		}
		ratings[product].sum += r.Rating
		ratings[product].count++
	}
	for i := range docs.Products {
		if s, ok := ratings[docs.Products[i].ID]; ok {
			docs.Products[i].Rating = s.sum / float64(s.count)
			docs.Products[i].ReviewsCount = s.count
		}
	}

	for _, p := range f.Posts {
		id, err := posts.define("post", p.Key)
		if err != nil {
			return nil, err
		}
		author, err := users.ref("user", p.Author)
		if err != nil {
			return nil, fmt.Errorf("post %q: %w", p.Title, err)
		}
		docs.Posts = append(docs.Posts, models.Post{
			ID: id, Author: author, Title: p.Title, Content: p.Content, CreatedAt: now, UpdatedAt: now,
		})
	}

	for _, c := range f.Comments {
		post, err := posts.ref("post", c.Post)
		if err != nil {
			return nil, fmt.Errorf("comment: %w", err)
		}
		user, err := users.ref("user", c.User)
		if err != nil {
			return nil, fmt.Errorf("comment: %w", err)
		}
		docs.Comments = append(docs.Comments, models.Comment{
			ID: primitive.NewObjectID(), Post: post, User: user, Content: c.Content, CreatedAt: now, UpdatedAt: now,
		})
	}

	return docs, nil
}

// Counts es el número de documentos insertados por colección
type Counts map[string]int

// Load inserta los documentos colección a colección
func Load(ctx context.Context, db *mongo.Database, docs *Documents) (Counts, error) {
	batches := []struct {
		collection string
		docs       []interface{}
	}{
		{database.UsersCollection, toAny(docs.Users)},
		{database.CategoriesCollection, toAny(docs.Categories)},
		{database.ProductsCollection, toAny(docs.Products)},
		{database.OrdersCollection, toAny(docs.Orders)},
		{database.ReviewsCollection, toAny(docs.Reviews)},
		{database.PostsCollection, toAny(docs.Posts)},
		{database.CommentsCollection, toAny(docs.Comments)},
	}

	counts := Counts{}
	for _, b := range batches {
		if len(b.docs) == 0 {
			continue
		}
		result, err := db.Collection(b.collection).InsertMany(ctx, b.docs)
		if err != nil {
			return counts, fmt.Errorf("insert %s: %w", b.collection, err)
		}
		counts[b.collection] = len(result.InsertedIDs)
	}
	return counts, nil
}

func toAny[T any](items []T) []interface{} {
	out := make([]interface{}, len(items))
	for i := range items {
		out[i] = items[i]
	}
	return out
}
