package workflow

import "complyapi/internal/model"

// DocumentStatus derives a document's status and stamped flag from its
// signature slots.
func DocumentStatus(set model.SignatureSet) (model.DocumentStatus, bool, error) {
	count, err := SignedCount(set)
	if err != nil {
		return "", false, err
	}
	switch count {
	case 0:
		return model.DocumentPending, false, nil
	case RoleCount:
		return model.DocumentCompleted, true, nil
	default:
		return model.DocumentInProgress, false, nil
	}
}

// FormStatus derives an evidence form's status from its signature slots.
// A rejected form keeps model.FormRejected regardless of its slots; the
// caller checks for rejection before deriving.
func FormStatus(set model.SignatureSet) (model.FormStatus, error) {
	count, err := SignedCount(set)
	if err != nil {
		return "", err
	}
	switch count {
	case 0:
		return model.FormDraft, nil
	case 1:
		return model.FormPendingReview, nil
	case 2:
		return model.FormPendingApproval, nil
	default:
		return model.FormApproved, nil
	}
}
