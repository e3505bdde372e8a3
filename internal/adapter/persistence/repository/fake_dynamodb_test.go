package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// fakeDynamo records inputs and answers with the configured outputs.
type fakeDynamo struct {
	getItemOut  *dynamodb.GetItemOutput
	updateOut   *dynamodb.UpdateItemOutput
	queryOut    *dynamodb.QueryOutput
	scanPages   []*dynamodb.ScanOutput
	err         error
	putInputs   []*dynamodb.PutItemInput
	updInputs   []*dynamodb.UpdateItemInput
	queryInputs []*dynamodb.QueryInput
	scanInputs  []*dynamodb.ScanInput
	txInputs    []*dynamodb.TransactWriteItemsInput
}

func (f *fakeDynamo) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.getItemOut == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return f.getItemOut, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInputs = append(f.putInputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updInputs = append(f.updInputs, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.updateOut == nil {
		return &dynamodb.UpdateItemOutput{}, nil
	}
	return f.updateOut, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryInputs = append(f.queryInputs, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.queryOut == nil {
		return &dynamodb.QueryOutput{}, nil
	}
	return f.queryOut, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanInputs = append(f.scanInputs, in)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.scanPages) == 0 {
		return &dynamodb.ScanOutput{}, nil
	}
	page := f.scanPages[0]
	f.scanPages = f.scanPages[1:]
	return page, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.txInputs = append(f.txInputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}
