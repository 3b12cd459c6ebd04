package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	GymsCollection          *mongo.Collection
	MembersCollection       *mongo.Collection
	TrainersCollection      *mongo.Collection
	TrialBookingsCollection *mongo.Collection
	AttendanceCollection    *mongo.Collection
	PaymentsCollection      *mongo.Collection
	CashCodesCollection     *mongo.Collection
	NotificationsCollection *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("fitpassdb")
	UserCollection = database.Collection("users")
	GymsCollection = database.Collection("gyms")
	MembersCollection = database.Collection("members")
	TrainersCollection = database.Collection("trainers")
	TrialBookingsCollection = database.Collection("trialbookings")
	AttendanceCollection = database.Collection("attendance")
	PaymentsCollection = database.Collection("payments")
	CashCodesCollection = database.Collection("cashcodes")
	NotificationsCollection = database.Collection("notifications")
}

// EnsureIndexes creates the unique and TTL indexes the write paths rely on.
func EnsureIndexes(ctx context.Context) error {
	_, err := AttendanceCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "gymid", Value: 1}, {Key: "personid", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_gym_person_date"),
	})
	if err != nil {
		return err
	}
	_, err = CashCodesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"code": 1},
		Options: options.Index().SetUnique(true).SetName("unique_code"),
	})
	if err != nil {
		return err
	}
	_, err = TrialBookingsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"bookingid": 1},
		Options: options.Index().SetUnique(true).SetName("unique_bookingid"),
	})
	return err
}
