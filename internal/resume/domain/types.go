package domain

import "time"

// EngineID identifies a text-extraction engine
type EngineID string

const (
	// EnginePDFCPU parses the PDF with full validation and walks page
	// content streams. Best layout fidelity of the direct engines.
	EnginePDFCPU EngineID = "pdfcpu"
	// EnginePDFCPURelaxed is the same extractor with validation disabled,
	// so it survives damaged cross-reference tables.
	EnginePDFCPURelaxed EngineID = "pdfcpu_relaxed"
	// EngineStream scans the raw file bytes for text operators without
	// reading the xref at all. Fastest, lowest fidelity.
	EngineStream EngineID = "stream"
	// EngineOCR renders pages through an external recognition service.
	EngineOCR EngineID = "ocr"
	// EnginePlainText passes through UTF-8 text buffers unchanged.
	EnginePlainText EngineID = "plaintext"

	// EngineAuto lets the selector pick based on document characteristics.
	EngineAuto EngineID = "auto"
)

// Document is an immutable handle to the input bytes plus metadata.
// Created at pipeline start, read-only, discarded after extraction.
type Document struct {
	Path      string `json:"path,omitempty"`
	Data      []byte `json:"-"`
	ByteSize  int64  `json:"byte_size"`
	PageCount int    `json:"page_count,omitempty"`
}

// IsPDF checks for the %PDF magic at the start of the document bytes.
func (d *Document) IsPDF() bool {
	return len(d.Data) >= 4 &&
		d.Data[0] == '%' && d.Data[1] == 'P' && d.Data[2] == 'D' && d.Data[3] == 'F'
}

// ExtractionResult is the output of one extraction attempt.
type ExtractionResult struct {
	Text       string        `json:"text"`
	Method     EngineID      `json:"method"`
	Confidence float64       `json:"confidence"`
	PageCount  int           `json:"page_count"`
	Errors     []string      `json:"errors,omitempty"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// SectionType is a canonical résumé content category.
type SectionType string

const (
	SectionContact        SectionType = "contact"
	SectionSummary        SectionType = "summary"
	SectionExperience     SectionType = "experience"
	SectionEducation      SectionType = "education"
	SectionSkills         SectionType = "skills"
	SectionProjects       SectionType = "projects"
	SectionCertifications SectionType = "certifications"
	SectionLanguages      SectionType = "languages"
	SectionAchievements   SectionType = "achievements"
)

// AllSections lists every canonical section type, used for completeness scoring.
var AllSections = []SectionType{
	SectionContact, SectionSummary, SectionExperience, SectionEducation,
	SectionSkills, SectionProjects, SectionCertifications,
	SectionLanguages, SectionAchievements,
}

// ContactInfo holds candidate contact fields. All optional; the first
// plausible match wins and later matches never overwrite an existing value.
type ContactInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Address  string `json:"address,omitempty"`
}

// WorkExperience is one employment entry in input order.
type WorkExperience struct {
	Company      string   `json:"company,omitempty"`
	Position     string   `json:"position,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Description  []string `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// Education is one education entry.
type Education struct {
	Institution    string `json:"institution,omitempty"`
	Degree         string `json:"degree,omitempty"`
	Field          string `json:"field,omitempty"`
	GraduationYear string `json:"graduation_year,omitempty"`
	GPA            string `json:"gpa,omitempty"`
}

// Project is one project entry.
type Project struct {
	Name         string   `json:"name,omitempty"`
	Description  []string `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
}

// Certification is one certification entry.
type Certification struct {
	Name   string `json:"name,omitempty"`
	Issuer string `json:"issuer,omitempty"`
	Year   string `json:"year,omitempty"`
}

// CandidateProfile aggregates every parsed résumé field.
type CandidateProfile struct {
	Contact           ContactInfo      `json:"contact"`
	Summary           string           `json:"summary,omitempty"`
	WorkExperience    []WorkExperience `json:"work_experience,omitempty"`
	Education         []Education      `json:"education,omitempty"`
	Skills            []string         `json:"skills,omitempty"`
	Projects          []Project        `json:"projects,omitempty"`
	Certifications    []Certification  `json:"certifications,omitempty"`
	Languages         []string         `json:"languages,omitempty"`
	Achievements      []string         `json:"achievements,omitempty"`
	SectionsFound     []SectionType    `json:"sections_found,omitempty"`
	ParsingConfidence float64          `json:"parsing_confidence"`
}

// HasSection reports whether the segmenter located the given section.
func (p *CandidateProfile) HasSection(s SectionType) bool {
	for _, found := range p.SectionsFound {
		if found == s {
			return true
		}
	}
	return false
}

// EnhancementResult mirrors the enhancement service response contract.
type EnhancementResult struct {
	OverallScore             float64  `json:"overall_score"`
	Strengths                []string `json:"strengths,omitempty"`
	Weaknesses               []string `json:"weaknesses,omitempty"`
	Suggestions              []string `json:"suggestions,omitempty"`
	ATSCompatibility         float64  `json:"ats_compatibility"`
	EstimatedExperienceLevel string   `json:"estimated_experience_level,omitempty"`
	SuitableRoles            []string `json:"suitable_roles,omitempty"`
}

// MatchResult mirrors the matching service response contract.
type MatchResult struct {
	OverallMatch  float64  `json:"overall_match"`
	SkillMatch    float64  `json:"skill_match"`
	KeywordMatch  float64  `json:"keyword_match"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
	MissingSkills []string `json:"missing_skills,omitempty"`
}

// Clamp bounds a score to [0,1]. Every confidence, quality and
// completeness score in the pipeline passes through here.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
