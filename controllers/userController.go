package controllers

import (
	"context"
	"fmt"
	"time"

	"civiclens-be/config"
	"civiclens-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUser loads the authenticated user's profile document. Issue
// creation embeds a snapshot of it; everything else only needs the id from
// the token.
func currentUser(c *gin.Context) (*models.User, error) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil, fmt.Errorf("user not authenticated")
	}

	objectID, err := primitive.ObjectIDFromHex(userIDVal.(string))
	if err != nil {
		return nil, fmt.Errorf("invalid user id")
	}

	userCollection := config.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user); err != nil {
		return nil, fmt.Errorf("user not found")
	}
	return &user, nil
}
