package models

// Type is an enumerated credential kind. Driver-owned and vehicle-owned
// types are disjoint sets; the category a type belongs to decides which
// record collection stores its documents.
type Type string

// Driver-owned document types.
const (
	TypeDrivingLicence        Type = "driving_licence"
	TypeElectronicCounterpart Type = "electronic_counterpart"
	TypePCOLicence            Type = "pco_licence"
	TypeBankStatement         Type = "bank_statement"
	TypeProfilePhoto          Type = "profile_photo"
	TypeProofOfIdentity       Type = "proof_of_identity"
)

// Vehicle-owned document types.
const (
	TypePHVLicence           Type = "phv_licence"
	TypeMOTCertificate       Type = "mot_certificate"
	TypeInsuranceCertificate Type = "insurance_certificate"
	TypeV5CLogbook           Type = "v5c_logbook"
	TypeHireAgreement        Type = "hire_agreement"
	TypeVehicleSchedule      Type = "vehicle_schedule"
	TypeDriverSchedule       Type = "driver_schedule"
)

// RequiredDriverDocuments is the activation policy: every type listed here
// must hold an approved, non-expired document before a driver can go live.
// Order is fixed and surfaces in eligibility reports.
var RequiredDriverDocuments = []Type{
	TypeDrivingLicence,
	TypeElectronicCounterpart,
	TypePCOLicence,
	TypeBankStatement,
	TypeProfilePhoto,
	TypeProofOfIdentity,
	TypePHVLicence,
	TypeMOTCertificate,
	TypeInsuranceCertificate,
	TypeV5CLogbook,
}

// typesWithExpiry are the credential kinds that carry an expiry date.
var typesWithExpiry = map[Type]struct{}{
	TypeDrivingLicence:        {},
	TypeElectronicCounterpart: {},
	TypePCOLicence:            {},
	TypePHVLicence:            {},
	TypeMOTCertificate:        {},
	TypeInsuranceCertificate:  {},
}

var typeLabels = map[Type]string{
	TypeDrivingLicence:        "DVLA Driving Licence",
	TypeElectronicCounterpart: "Electronic Counterpart",
	TypePCOLicence:            "Private Hire Driver Licence",
	TypeBankStatement:         "Bank Statement",
	TypeProfilePhoto:          "Profile Photo",
	TypeProofOfIdentity:       "Proof of Identity",
	TypePHVLicence:            "Private Hire Vehicle Licence",
	TypeMOTCertificate:        "MOT Certificate",
	TypeInsuranceCertificate:  "Insurance Certificate",
	TypeV5CLogbook:            "V5C Logbook",
	TypeHireAgreement:         "Hire Agreement",
	TypeVehicleSchedule:       "Vehicle Schedule",
	TypeDriverSchedule:        "Driver Schedule",
}

var driverTypes = map[Type]struct{}{
	TypeDrivingLicence:        {},
	TypeElectronicCounterpart: {},
	TypePCOLicence:            {},
	TypeBankStatement:         {},
	TypeProfilePhoto:          {},
	TypeProofOfIdentity:       {},
}

// Label returns the human-readable name for a document type, falling back to
// the raw value for unknown types.
func (t Type) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// RequiresExpiry reports whether documents of this type must carry an
// expiry date.
func (t Type) RequiresExpiry() bool {
	_, ok := typesWithExpiry[t]
	return ok
}

// Required reports whether this type is part of the activation policy.
func (t Type) Required() bool {
	for _, required := range RequiredDriverDocuments {
		if t == required {
			return true
		}
	}
	return false
}

// CategoryOf returns the record category a document type belongs to.
func (t Type) CategoryOf() Category {
	if _, ok := driverTypes[t]; ok {
		return CategoryDriver
	}
	return CategoryVehicle
}

// KnownType reports whether t is one of the enumerated credential kinds.
func KnownType(t Type) bool {
	_, ok := typeLabels[t]
	return ok
}
