package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/feedbackhub/internal/models"
)

const FEEDBACK_TABLE_NAME = "Feedback"

// DynamoAPI is the subset of *dynamodb.Client used by the repository.
type DynamoAPI interface {
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoFeedbackRepository stores one item per feedback, keyed by "id".
type DynamoFeedbackRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoFeedbackRepository(client DynamoAPI, table string) *DynamoFeedbackRepository {
	if table == "" {
		table = FEEDBACK_TABLE_NAME
	}
	return &DynamoFeedbackRepository{client: client, table: table}
}

func (r *DynamoFeedbackRepository) Insert(ctx context.Context, fb *models.Feedback) error {
	item, err := attributevalue.MarshalMap(fb)
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal feedback: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to put feedback: %w", err)
	}

	slog.Debug("[DynamoDB] Stored feedback", slog.String("feedback_id", fb.ID))
	return nil
}

func (r *DynamoFeedbackRepository) Get(ctx context.Context, id string) (*models.Feedback, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to get feedback: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, models.ErrFeedbackNotFound
	}

	var fb models.Feedback
	if err := attributevalue.UnmarshalMap(out.Item, &fb); err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to unmarshal feedback: %w", err)
	}
	return &fb, nil
}

// List scans the table, since scans have no order the newest-first sort and
// limit are applied after all matching pages are read.
func (r *DynamoFeedbackRepository) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error) {
	input := scanInput(r.table, filter)
	paginator := dynamodb.NewScanPaginator(r.client, input)

	var feedback []models.Feedback
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for feedback failed: %w", err)
		}

		var page []models.Feedback
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal feedback page", slog.String("error", err.Error()))
			return nil, fmt.Errorf("[DynamoDB] Failed to unmarshal feedback page: %w", err)
		}
		feedback = append(feedback, page...)
	}

	slog.Debug("[DynamoDB] Retrieved feedback", slog.Int("count", len(feedback)))
	return newestFirst(feedback, filter.Limit), nil
}

func scanInput(table string, filter models.FeedbackFilter) *dynamodb.ScanInput {
	input := &dynamodb.ScanInput{TableName: aws.String(table)}

	var conditions []string
	values := make(map[string]types.AttributeValue)
	if filter.EventID != "" {
		conditions = append(conditions, "event_id = :event_id")
		values[":event_id"] = &types.AttributeValueMemberS{Value: filter.EventID}
	}
	if filter.EventName != "" {
		conditions = append(conditions, "event_name = :event")
		values[":event"] = &types.AttributeValueMemberS{Value: filter.EventName}
	}
	if filter.UserID != "" {
		conditions = append(conditions, "user_id = :user")
		values[":user"] = &types.AttributeValueMemberS{Value: filter.UserID}
	}
	if len(conditions) > 0 {
		input.FilterExpression = aws.String(strings.Join(conditions, " AND "))
		input.ExpressionAttributeValues = values
	}
	return input
}

// Ping checks that the table exists and is reachable.
func (r *DynamoFeedbackRepository) Ping(ctx context.Context) error {
	out, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.table),
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to describe table %s: %w", r.table, err)
	}
	if out.Table == nil {
		return errors.New("[DynamoDB] table description is empty")
	}
	return nil
}
