package models

import dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"

// Category groups document types for verification requirements and trust
// scoring. Derived from the fixed type map, never stored independently.
type Category string

const (
	CategoryIdentity     Category = "identity"
	CategoryEducation    Category = "education"
	CategoryProfessional Category = "professional"
	CategoryBusiness     Category = "business"
	CategoryOther        Category = "other"
)

// RequirementCategory names one of the four weighted verification-journey
// requirements. Address proofs live in the "other" document category but
// satisfy their own requirement, so the mapping is by concrete type.
type RequirementCategory string

const (
	RequirementIdentity     RequirementCategory = "identity"
	RequirementAddress      RequirementCategory = "address"
	RequirementEducation    RequirementCategory = "education"
	RequirementProfessional RequirementCategory = "professional"
)

// Type is a concrete document kind. The set is closed; unknown kinds are
// rejected at the boundary.
type Type string

const (
	TypePassport            Type = "passport"
	TypeNationalID          Type = "nationalId"
	TypeDriversLicense      Type = "driversLicense"
	TypeResidencePermit     Type = "residencePermit"
	TypeUtilityBill         Type = "utilityBill"
	TypeBankStatement       Type = "bankStatement"
	TypeLeaseAgreement      Type = "leaseAgreement"
	TypeDegreeCertificate   Type = "degreeCertificate"
	TypeDiploma             Type = "diploma"
	TypeTranscript          Type = "transcript"
	TypeProfessionalLicense Type = "professionalLicense"
	TypeCertification       Type = "certification"
	TypeReferenceLetter     Type = "referenceLetter"
	TypeBusinessLicense     Type = "businessLicense"
	TypeTaxRegistration     Type = "taxRegistration"
	TypeOther               Type = "other"
)

// typeCategories is the fixed type -> category map.
var typeCategories = map[Type]Category{
	TypePassport:            CategoryIdentity,
	TypeNationalID:          CategoryIdentity,
	TypeDriversLicense:      CategoryIdentity,
	TypeResidencePermit:     CategoryIdentity,
	TypeUtilityBill:         CategoryOther,
	TypeBankStatement:       CategoryOther,
	TypeLeaseAgreement:      CategoryOther,
	TypeDegreeCertificate:   CategoryEducation,
	TypeDiploma:             CategoryEducation,
	TypeTranscript:          CategoryEducation,
	TypeProfessionalLicense: CategoryProfessional,
	TypeCertification:       CategoryProfessional,
	TypeReferenceLetter:     CategoryProfessional,
	TypeBusinessLicense:     CategoryBusiness,
	TypeTaxRegistration:     CategoryBusiness,
	TypeOther:               CategoryOther,
}

// typeRequirements maps concrete types onto the journey requirement they can
// satisfy. Types absent from the map satisfy no requirement.
var typeRequirements = map[Type]RequirementCategory{
	TypePassport:            RequirementIdentity,
	TypeNationalID:          RequirementIdentity,
	TypeDriversLicense:      RequirementIdentity,
	TypeResidencePermit:     RequirementIdentity,
	TypeUtilityBill:         RequirementAddress,
	TypeBankStatement:       RequirementAddress,
	TypeLeaseAgreement:      RequirementAddress,
	TypeDegreeCertificate:   RequirementEducation,
	TypeDiploma:             RequirementEducation,
	TypeTranscript:          RequirementEducation,
	TypeProfessionalLicense: RequirementProfessional,
	TypeCertification:       RequirementProfessional,
	TypeReferenceLetter:     RequirementProfessional,
}

// ParseType constructs a Type from external input.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := typeCategories[t]; !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown document type %q", s)
	}
	return t, nil
}

// Category derives the grouping for the type.
func (t Type) Category() Category {
	if c, ok := typeCategories[t]; ok {
		return c
	}
	return CategoryOther
}

// Requirement returns the journey requirement this type can satisfy, or false
// when the type counts toward no requirement.
func (t Type) Requirement() (RequirementCategory, bool) {
	r, ok := typeRequirements[t]
	return r, ok
}

func (t Type) String() string { return string(t) }
