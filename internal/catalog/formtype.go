package catalog

// FormType is the closed set of operational evidence form kinds. Adding a
// kind means adding a constant here and a mapping in the catalog seed;
// unknown strings are rejected at catalog load, not silently passed through.
type FormType string

const (
	FormChangeRequest      FormType = "change_request"
	FormIncidentReport     FormType = "incident_report"
	FormAccessRequest      FormType = "access_request"
	FormAccessReview       FormType = "access_review"
	FormBackupVerification FormType = "backup_verification"
	FormRestoreTest        FormType = "restore_test"
	FormVulnerabilityScan  FormType = "vulnerability_scan"
	FormPatchDeployment    FormType = "patch_deployment"
	FormRiskAssessment     FormType = "risk_assessment"
	FormAssetRegister      FormType = "asset_register"
	FormUserProvisioning   FormType = "user_provisioning"
	FormUserDeprovisioning FormType = "user_deprovisioning"
	FormSecurityTraining   FormType = "security_training"
	FormVendorAssessment   FormType = "vendor_assessment"
	FormCapacityReview     FormType = "capacity_review"
	FormMaintenanceRecord  FormType = "maintenance_record"
	FormLogReview          FormType = "log_review"
	FormPenetrationTest    FormType = "penetration_test"
	FormDRDrill            FormType = "dr_drill"
	FormMediaDisposal      FormType = "media_disposal"
)

// FormTypes lists every known form type in a stable order.
var FormTypes = []FormType{
	FormChangeRequest,
	FormIncidentReport,
	FormAccessRequest,
	FormAccessReview,
	FormBackupVerification,
	FormRestoreTest,
	FormVulnerabilityScan,
	FormPatchDeployment,
	FormRiskAssessment,
	FormAssetRegister,
	FormUserProvisioning,
	FormUserDeprovisioning,
	FormSecurityTraining,
	FormVendorAssessment,
	FormCapacityReview,
	FormMaintenanceRecord,
	FormLogReview,
	FormPenetrationTest,
	FormDRDrill,
	FormMediaDisposal,
}

// Valid reports whether t is a known form type.
func (t FormType) Valid() bool {
	for _, ft := range FormTypes {
		if t == ft {
			return true
		}
	}
	return false
}
