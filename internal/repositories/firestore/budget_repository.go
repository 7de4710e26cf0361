// Package firestore implements the budget document store port against
// the Firestore REST API, preserving the users/{userID}/budgets/{budgetID}
// layout the original web client wrote.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/google"
	firestore "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/mustafajawed/Budget-Manager/internal/apperrors"
	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
	portsrepo "github.com/mustafajawed/Budget-Manager/internal/core/ports/repositories"
	"github.com/mustafajawed/Budget-Manager/internal/models"
	"github.com/mustafajawed/Budget-Manager/internal/utils/mapping"
)

const budgetsCollection = "budgets"

// FirestoreBudgetRepository stores whole budget documents in Firestore.
type FirestoreBudgetRepository struct {
	docs *firestore.ProjectsDatabasesDocumentsService

	// basePath is projects/{projectID}/databases/(default)/documents.
	basePath string
}

// NewBudgetRepository creates a Firestore-backed budget repository.
// Credentials come from Application Default Credentials.
func NewBudgetRepository(ctx context.Context, projectID string) (portsrepo.BudgetRepositoryFacade, error) {
	ts, err := google.DefaultTokenSource(ctx, firestore.DatastoreScope)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve firestore credentials: %w", err)
	}
	svc, err := firestore.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &FirestoreBudgetRepository{
		docs:     svc.Projects.Databases.Documents,
		basePath: fmt.Sprintf("projects/%s/databases/(default)/documents", projectID),
	}, nil
}

var _ portsrepo.BudgetRepositoryFacade = (*FirestoreBudgetRepository)(nil)

func (r *FirestoreBudgetRepository) userPath(userID string) string {
	return r.basePath + "/users/" + userID
}

func (r *FirestoreBudgetRepository) documentName(userID, budgetID string) string {
	return r.userPath(userID) + "/" + budgetsCollection + "/" + budgetID
}

func (r *FirestoreBudgetRepository) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	budgets := []domain.Budget{}
	pageToken := ""
	for {
		call := r.docs.ListDocuments(r.userPath(userID), budgetsCollection).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list budget documents: %w", apperrors.ErrRemoteRead)
		}
		for _, fsDoc := range resp.Documents {
			doc, err := decodeBudgetDocument(fsDoc)
			if err != nil {
				return nil, fmt.Errorf("budget document %s: %w", fsDoc.Name, apperrors.ErrRemoteRead)
			}
			budgets = append(budgets, mapping.ToDomainBudget(lastSegment(fsDoc.Name), doc))
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	// Firestore lists in document-name order; present budgets in
	// creation order like the rest of the stores.
	sort.SliceStable(budgets, func(i, j int) bool {
		return budgets[i].CreatedAt.Before(budgets[j].CreatedAt)
	})
	return budgets, nil
}

func (r *FirestoreBudgetRepository) CreateBudget(ctx context.Context, userID string, budget domain.Budget) (string, error) {
	fsDoc := encodeBudgetDocument(mapping.ToBudgetDocument(budget))
	created, err := r.docs.CreateDocument(r.userPath(userID), budgetsCollection, fsDoc).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create budget document: %w", apperrors.ErrRemoteWrite)
	}
	return lastSegment(created.Name), nil
}

func (r *FirestoreBudgetRepository) ReplaceBudget(ctx context.Context, userID string, budget domain.Budget) error {
	fsDoc := encodeBudgetDocument(mapping.ToBudgetDocument(budget))
	name := r.documentName(userID, budget.BudgetID)
	_, err := r.docs.Patch(name, fsDoc).CurrentDocumentExists(true).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("budget %s not found: %w", budget.BudgetID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to replace budget document: %w", apperrors.ErrRemoteWrite)
	}
	return nil
}

func (r *FirestoreBudgetRepository) DeleteBudget(ctx context.Context, userID string, budgetID string) error {
	name := r.documentName(userID, budgetID)
	_, err := r.docs.Delete(name).CurrentDocumentExists(true).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("budget %s not found: %w", budgetID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to delete budget document: %w", apperrors.ErrRemoteWrite)
	}
	return nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 404
}

func lastSegment(name string) string {
	idx := strings.LastIndexByte(name, '/')
	return name[idx+1:]
}

// encodeBudgetDocument maps the persisted document shape onto Firestore
// typed values. Decimal amounts travel as strings so no precision is
// lost to float64.
func encodeBudgetDocument(doc models.BudgetDocument) *firestore.Document {
	expenses := make([]*firestore.Value, len(doc.Expenses))
	for i, e := range doc.Expenses {
		expenses[i] = &firestore.Value{MapValue: &firestore.MapValue{Fields: map[string]firestore.Value{
			"expenseID": stringValue(e.ExpenseID),
			"name":      stringValue(e.Name),
			"amount":    stringValue(e.Amount.String()),
			"category":  stringValue(e.Category),
			"date":      timestampValue(e.Date),
		}}}
	}
	return &firestore.Document{Fields: map[string]firestore.Value{
		"name":      stringValue(doc.Name),
		"total":     stringValue(doc.Total.String()),
		"remaining": stringValue(doc.Remaining.String()),
		"expenses":  {ArrayValue: &firestore.ArrayValue{Values: expenses}},
		"date":      timestampValue(doc.Date),
	}}
}

func stringValue(s string) firestore.Value {
	return firestore.Value{StringValue: s}
}

func timestampValue(t time.Time) firestore.Value {
	ts := t.UTC().Format(time.RFC3339Nano)
	return firestore.Value{TimestampValue: ts}
}

func decodeBudgetDocument(fsDoc *firestore.Document) (models.BudgetDocument, error) {
	var doc models.BudgetDocument
	var err error

	doc.Name = decodeString(fsDoc.Fields["name"])
	if doc.Total, err = decodeDecimal(fsDoc.Fields["total"]); err != nil {
		return doc, fmt.Errorf("field total: %w", err)
	}
	if doc.Remaining, err = decodeDecimal(fsDoc.Fields["remaining"]); err != nil {
		return doc, fmt.Errorf("field remaining: %w", err)
	}
	if doc.Date, err = decodeTimestamp(fsDoc.Fields["date"]); err != nil {
		return doc, fmt.Errorf("field date: %w", err)
	}

	arr := fsDoc.Fields["expenses"].ArrayValue
	if arr == nil {
		return doc, nil
	}
	doc.Expenses = make([]models.ExpenseRecord, 0, len(arr.Values))
	for i, v := range arr.Values {
		if v == nil || v.MapValue == nil {
			return doc, fmt.Errorf("expense %d is not a map", i)
		}
		fields := v.MapValue.Fields
		rec := models.ExpenseRecord{
			ExpenseID: decodeString(fields["expenseID"]),
			Name:      decodeString(fields["name"]),
			Category:  decodeString(fields["category"]),
		}
		if rec.Amount, err = decodeDecimal(fields["amount"]); err != nil {
			return doc, fmt.Errorf("expense %d amount: %w", i, err)
		}
		if rec.Date, err = decodeTimestamp(fields["date"]); err != nil {
			return doc, fmt.Errorf("expense %d date: %w", i, err)
		}
		doc.Expenses = append(doc.Expenses, rec)
	}
	return doc, nil
}

func decodeString(v firestore.Value) string {
	return v.StringValue
}

// decodeDecimal accepts both string-encoded amounts (what this backend
// writes) and the raw numbers the original web client stored.
func decodeDecimal(v firestore.Value) (decimal.Decimal, error) {
	if v.StringValue != "" {
		return decimal.NewFromString(v.StringValue)
	}
	if v.DoubleValue != 0 {
		return decimal.NewFromFloat(v.DoubleValue), nil
	}
	if v.IntegerValue != 0 {
		return decimal.NewFromInt(v.IntegerValue), nil
	}
	return decimal.Zero, nil
}

func decodeTimestamp(v firestore.Value) (time.Time, error) {
	if v.TimestampValue == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, v.TimestampValue)
}
