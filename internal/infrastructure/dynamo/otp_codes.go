package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/astro-auth-api/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// OTPRepo stores code records in one table.
// PK: email, SK: "otp#<otp_id>" for records and "#head" for the per-email
// version item that serializes concurrent creates.
type OTPRepo struct {
	client    API
	tableName string
}

func NewOTPRepo(client API, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

type otpItem struct {
	SK string `dynamodbav:"sk"`
	domain.OTPCode
}

type headItem struct {
	Email   string `dynamodbav:"email"`
	SK      string `dynamodbav:"sk"`
	Version int64  `dynamodbav:"version"`
}

func otpSK(otpID string) string { return skOTPPrefix + otpID }

// Create supersedes every unused record of rec.Email and inserts rec in a
// single transaction conditioned on the head version it read.
func (r *OTPRepo) Create(ctx context.Context, rec *domain.OTPCode) (int, error) {
	version, err := r.headVersion(ctx, rec.Email)
	if err != nil {
		return 0, err
	}
	unused, err := r.ListUnused(ctx, rec.Email)
	if err != nil {
		return 0, err
	}

	item, err := attributevalue.MarshalMap(otpItem{SK: otpSK(rec.OTPID), OTPCode: *rec})
	if err != nil {
		return 0, fmt.Errorf("marshal otp: %w", err)
	}

	headUpdate := &types.Update{
		TableName:                aws.String(r.tableName),
		Key:                      compositeKey(fieldEmail, rec.Email, fieldSK, skHead),
		UpdateExpression:         aws.String("SET #v = :next"),
		ExpressionAttributeNames: map[string]string{"#v": fieldVersion},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":next": &types.AttributeValueMemberN{Value: strconv.FormatInt(version+1, 10)},
		},
	}
	if version == 0 {
		headUpdate.ConditionExpression = aws.String("attribute_not_exists(#v)")
	} else {
		headUpdate.ConditionExpression = aws.String("#v = :prev")
		headUpdate.ExpressionAttributeValues[":prev"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(version, 10)}
	}

	ops := []types.TransactWriteItem{{Update: headUpdate}}
	for _, c := range unused {
		ops = append(ops, types.TransactWriteItem{Update: &types.Update{
			TableName:                aws.String(r.tableName),
			Key:                      compositeKey(fieldEmail, c.Email, fieldSK, otpSK(c.OTPID)),
			UpdateExpression:         aws.String("SET #u = :true"),
			ConditionExpression:      aws.String("#u = :false"),
			ExpressionAttributeNames: map[string]string{"#u": fieldUsed},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":true":  &types.AttributeValueMemberBOOL{Value: true},
				":false": &types.AttributeValueMemberBOOL{Value: false},
			},
		}})
	}
	ops = append(ops, types.TransactWriteItem{Put: &types.Put{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#sk)"),
		ExpressionAttributeNames: map[string]string{"#sk": fieldSK},
	}})

	if _, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: ops}); err != nil {
		return 0, conflictOrErr(err)
	}
	return len(unused), nil
}

func (r *OTPRepo) headVersion(ctx context.Context, email string) (int64, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            compositeKey(fieldEmail, email, fieldSK, skHead),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, err
	}
	if out.Item == nil {
		return 0, nil
	}
	var h headItem
	if err := attributevalue.UnmarshalMap(out.Item, &h); err != nil {
		return 0, err
	}
	return h.Version, nil
}

// ListUnused returns every unused record for email, newest first.
func (r *OTPRepo) ListUnused(ctx context.Context, email string) ([]domain.OTPCode, error) {
	return r.queryUnused(ctx, email, false)
}

func (r *OTPRepo) LatestUnused(ctx context.Context, email string) (*domain.OTPCode, error) {
	codes, err := r.queryUnused(ctx, email, true)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	return &codes[0], nil
}

// queryUnused walks the email's records in descending sort-key order. The
// filter runs after Limit, so pages are followed until a match when firstOnly.
func (r *OTPRepo) queryUnused(ctx context.Context, email string, firstOnly bool) ([]domain.OTPCode, error) {
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("#e = :e AND begins_with(#sk, :p)"),
		FilterExpression:       aws.String("#u = :false"),
		ExpressionAttributeNames: map[string]string{
			"#e":  fieldEmail,
			"#sk": fieldSK,
			"#u":  fieldUsed,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e":     &types.AttributeValueMemberS{Value: email},
			":p":     &types.AttributeValueMemberS{Value: skOTPPrefix},
			":false": &types.AttributeValueMemberBOOL{Value: false},
		},
		ScanIndexForward: aws.Bool(false),
		ConsistentRead:   aws.Bool(true),
	})

	var codes []domain.OTPCode
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []otpItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			codes = append(codes, it.OTPCode)
		}
		if firstOnly && len(codes) > 0 {
			break
		}
	}
	return codes, nil
}

// CompareAndSwap writes next's attempts and used flag if the stored record
// still matches prev and is unused.
func (r *OTPRepo) CompareAndSwap(ctx context.Context, prev, next *domain.OTPCode) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey(fieldEmail, prev.Email, fieldSK, otpSK(prev.OTPID)),
		UpdateExpression:    aws.String("SET #a = :next, #u = :used"),
		ConditionExpression: aws.String("#a = :prev AND #u = :false"),
		ExpressionAttributeNames: map[string]string{
			"#a": fieldAttempts,
			"#u": fieldUsed,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":next":  &types.AttributeValueMemberN{Value: strconv.Itoa(next.Attempts)},
			":prev":  &types.AttributeValueMemberN{Value: strconv.Itoa(prev.Attempts)},
			":used":  &types.AttributeValueMemberBOOL{Value: next.Used},
			":false": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		return conflictOrErr(err)
	}
	return nil
}

// DeleteExpired scans for records past expiry and deletes them one by one.
// The table TTL on expires_at removes stragglers eventually as well.
func (r *OTPRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	nowAV := &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)}
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:            aws.String(r.tableName),
		FilterExpression:     aws.String("begins_with(#sk, :p) AND #x < :now"),
		ProjectionExpression: aws.String("#e, #sk"),
		ExpressionAttributeNames: map[string]string{
			"#e":  fieldEmail,
			"#sk": fieldSK,
			"#x":  fieldExpiresAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p":   &types.AttributeValueMemberS{Value: skOTPPrefix},
			":now": nowAV,
		},
	})

	deleted := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return deleted, err
		}
		for _, key := range page.Items {
			_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName:                aws.String(r.tableName),
				Key:                      key,
				ConditionExpression:      aws.String("#x < :now"),
				ExpressionAttributeNames: map[string]string{"#x": fieldExpiresAt},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":now": nowAV,
				},
			})
			if err != nil {
				if conflictOrErr(err) == domain.ErrConflict {
					continue
				}
				return deleted, err
			}
			deleted++
		}
	}
	return deleted, nil
}
