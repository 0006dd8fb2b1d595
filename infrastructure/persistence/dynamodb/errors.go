package dynamodb

import (
	"errors"

	pkgerrors "connecting-party-manager/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

const codeConditionalCheckFailed = "ConditionalCheckFailed"

// translateTransactionError maps a failed transaction onto the repository error taxonomy. A failed
// "must not exist" condition becomes AlreadyExists; anything else is returned as an unhandled
// transaction carrying the statements and the store's message.
func translateTransactionError(batch []TransactItem, err error) error {
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for i, reason := range canceled.CancellationReasons {
			if i >= len(batch) || aws.ToString(reason.Code) != codeConditionalCheckFailed {
				continue
			}
			if batch[i].Condition == ConditionMustNotExist {
				return pkgerrors.NewAlreadyExistsError(batch[i].PK, batch[i].SK).WithCause(err)
			}
		}
	}
	return pkgerrors.NewUnhandledTransactionError(statements(batch), storeMessage(err), err)
}

func storeMessage(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() + ": " + apiErr.ErrorMessage()
	}
	return err.Error()
}

func statements(batch []TransactItem) []string {
	out := make([]string, len(batch))
	for i, item := range batch {
		out[i] = item.String()
	}
	return out
}
