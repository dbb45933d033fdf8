package dynamo

import (
	"context"
	"fmt"

	"github.com/astro-auth-api/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DetailsRepo stores one profile per user. PK: user_id.
type DetailsRepo struct {
	client    API
	tableName string
}

func NewDetailsRepo(client API, tableName string) *DetailsRepo {
	return &DetailsRepo{client: client, tableName: tableName}
}

func (r *DetailsRepo) Create(ctx context.Context, d *domain.UserDetails) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal user details: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldUserID},
	})
	return conflictOrErr(err)
}

func (r *DetailsRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserDetails, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldUserID, userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user details not found: %w", domain.ErrNotFound)
	}
	var d domain.UserDetails
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Update rewrites the mutable profile fields of an existing item.
func (r *DetailsRepo) Update(ctx context.Context, d *domain.UserDetails) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"full_name":      d.FullName,
		"gender":         d.Gender,
		"marital_status": d.MaritalStatus,
		"date_of_birth":  d.DateOfBirth,
		"time_of_birth":  d.TimeOfBirth,
		"place_of_birth": d.PlaceOfBirth,
		"timezone":       d.Timezone,
		fieldUpdatedAt:   d.UpdatedAt,
	})
	if err != nil {
		return err
	}
	ue.Names["#pk"] = fieldUserID
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldUserID, d.UserID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		if conflictOrErr(err) == domain.ErrConflict {
			return fmt.Errorf("user details not found: %w", domain.ErrNotFound)
		}
		return err
	}
	return nil
}
