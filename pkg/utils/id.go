package utils

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID 24 位十六进制 ID（ObjectID 格式）
func NewID() string { return primitive.NewObjectID().Hex() }

// IsValidID 只校验格式，不查库
func IsValidID(s string) bool { return primitive.IsValidObjectID(s) }
