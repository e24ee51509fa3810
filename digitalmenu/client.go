package digitalmenu

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const customersCollection = "customers"

// Client reads the channel's customer documents and writes back the few
// fields the POS owns.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewClient(ctx context.Context, uri, database string) (*Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cli, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	return &Client{
		client:   cli,
		database: cli.Database(database),
	}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// customerFilter matches a document whether the foreign system assigned an
// ObjectID or a plain string id.
func customerFilter(customerID string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(customerID); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": customerID}
}

// CustomersWithOrders returns every customer document with a non-empty
// orders array.
func (c *Client) CustomersWithOrders(ctx context.Context) ([]Customer, error) {
	coll := c.database.Collection(customersCollection)

	filter := bson.M{"orders.0": bson.M{"$exists": true}}
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var customers []Customer
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// MarkOrderSynced sets syncedToPos, syncedAt and posOrderId on the embedded
// order. The match is by the order's own id.
func (c *Client) MarkOrderSynced(ctx context.Context, customerID, orderID string, posOrderID uint) error {
	coll := c.database.Collection(customersCollection)

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"orders.$[o].syncedToPos": true,
		"orders.$[o].syncedAt":    now,
		"orders.$[o].posOrderId":  posOrderID,
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"o.id": orderID}},
	})

	_, err := coll.UpdateOne(ctx, customerFilter(customerID), update, opts)
	return err
}

// SetCustomerTableStatus mirrors the POS-side table state onto the
// customer-facing tableStatus field.
func (c *Client) SetCustomerTableStatus(ctx context.Context, customerID, status string) error {
	coll := c.database.Collection(customersCollection)

	_, err := coll.UpdateOne(ctx, customerFilter(customerID),
		bson.M{"$set": bson.M{"tableStatus": status}})
	return err
}
