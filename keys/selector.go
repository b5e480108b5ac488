package bskeys

// Decides which contract operation submits a batch of the given size for the operator
func SelectOperation(opCtx OperatorContext, batchLen int) (Operation, error) {
	if batchLen < 1 {
		return "", newSubmissionError(ErrorKind_InvalidBatchForOperation, ErrEmptyBatch)
	}
	if opCtx.HasOperatorID() {
		return Operation_BondValidators, nil
	}
	if batchLen > 1 {
		return "", newSubmissionError(ErrorKind_InvalidBatchForOperation, ErrSingleKeyRequired)
	}
	return Operation_CreateOperator, nil
}
