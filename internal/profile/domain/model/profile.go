package model

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrExperienceNotFound = errors.New("experience not found")
	ErrEducationNotFound  = errors.New("education not found")
)

// UserRef is the populated owner of a profile.
type UserRef struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id"`
	Name   string             `json:"name" bson:"name"`
	Avatar string             `json:"avatar" bson:"avatar"`
}

// Experience is one job entry owned by a profile.
type Experience struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Company     string             `json:"company" bson:"company"`
	Location    string             `json:"location,omitempty" bson:"location,omitempty"`
	From        time.Time          `json:"from" bson:"from"`
	To          *time.Time         `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool               `json:"current" bson:"current"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
}

// Education is one school entry owned by a profile.
type Education struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	School       string             `json:"school" bson:"school"`
	Degree       string             `json:"degree" bson:"degree"`
	FieldOfStudy string             `json:"fieldofstudy" bson:"fieldofstudy"`
	From         time.Time          `json:"from" bson:"from"`
	To           *time.Time         `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool               `json:"current" bson:"current"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
}

// Social holds optional social network links.
type Social struct {
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

// Profile is a user's developer profile. Experience and education entries are
// owned by the profile and mutated only through it.
type Profile struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"-" bson:"user"`
	User           *UserRef           `json:"user,omitempty" bson:"owner,omitempty"`
	Company        string             `json:"company,omitempty" bson:"company,omitempty"`
	Website        string             `json:"website,omitempty" bson:"website,omitempty"`
	Location       string             `json:"location,omitempty" bson:"location,omitempty"`
	Status         string             `json:"status" bson:"status"`
	Skills         []string           `json:"skills" bson:"skills"`
	Bio            string             `json:"bio,omitempty" bson:"bio,omitempty"`
	GitHubUsername string             `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Experience     []Experience       `json:"experience" bson:"experience"`
	Education      []Education        `json:"education" bson:"education"`
	Social         Social             `json:"social" bson:"social"`
	Date           time.Time          `json:"date" bson:"date"`
}

// Fields are the user-editable profile attributes. Empty values leave the
// stored attribute untouched.
type Fields struct {
	Company        string
	Website        string
	Location       string
	Status         string
	Skills         string
	Bio            string
	GitHubUsername string
	Social         Social
}

// NewProfile returns an empty profile for userID.
func NewProfile(userID primitive.ObjectID) *Profile {
	return &Profile{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
		Date:       time.Now().UTC(),
	}
}

// Apply copies the non-empty fields onto the profile.
func (p *Profile) Apply(f Fields) {
	setIf(&p.Company, f.Company)
	setIf(&p.Website, f.Website)
	setIf(&p.Location, f.Location)
	setIf(&p.Status, f.Status)
	setIf(&p.Bio, f.Bio)
	setIf(&p.GitHubUsername, f.GitHubUsername)
	if skills := ParseSkills(f.Skills); len(skills) > 0 {
		p.Skills = skills
	}

	setIf(&p.Social.YouTube, f.Social.YouTube)
	setIf(&p.Social.Twitter, f.Social.Twitter)
	setIf(&p.Social.Facebook, f.Social.Facebook)
	setIf(&p.Social.LinkedIn, f.Social.LinkedIn)
	setIf(&p.Social.Instagram, f.Social.Instagram)
}

// AddExperience inserts exp at the front of the experience list.
func (p *Profile) AddExperience(exp Experience) Experience {
	if exp.ID.IsZero() {
		exp.ID = primitive.NewObjectID()
	}
	p.Experience = append([]Experience{exp}, p.Experience...)
	return exp
}

// RemoveExperience removes the experience entry with the given id.
func (p *Profile) RemoveExperience(id primitive.ObjectID) error {
	for i := range p.Experience {
		if p.Experience[i].ID == id {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return nil
		}
	}
	return ErrExperienceNotFound
}

// AddEducation inserts edu at the front of the education list.
func (p *Profile) AddEducation(edu Education) Education {
	if edu.ID.IsZero() {
		edu.ID = primitive.NewObjectID()
	}
	p.Education = append([]Education{edu}, p.Education...)
	return edu
}

// RemoveEducation removes the education entry with the given id.
func (p *Profile) RemoveEducation(id primitive.ObjectID) error {
	for i := range p.Education {
		if p.Education[i].ID == id {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return nil
		}
	}
	return ErrEducationNotFound
}

// Normalize replaces nil slices so they encode as [] rather than null.
func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.User == nil && !p.UserID.IsZero() {
		p.User = &UserRef{ID: p.UserID}
	}
}

// ParseSkills splits a comma separated list, trimming blanks.
func ParseSkills(csv string) []string {
	skills := make([]string, 0)
	for _, s := range strings.Split(csv, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func setIf(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
