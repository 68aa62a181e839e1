package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "MongoDB", "Redis"}, ParseSkills(" Go, MongoDB ,,Redis "))
	assert.Empty(t, ParseSkills(""))
	assert.NotNil(t, ParseSkills(""))
}

func TestProfile_ApplyOnlySetsSuppliedFields(t *testing.T) {
	p := NewProfile(primitive.NewObjectID())
	p.Apply(Fields{Company: "Acme", Status: "Developer", Skills: "go,js", Social: Social{Twitter: "t"}})
	p.Apply(Fields{Bio: "hi"})

	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "Developer", p.Status)
	assert.Equal(t, []string{"go", "js"}, p.Skills)
	assert.Equal(t, "hi", p.Bio)
	assert.Equal(t, "t", p.Social.Twitter)
}

func TestProfile_Experience(t *testing.T) {
	p := NewProfile(primitive.NewObjectID())
	first := p.AddExperience(Experience{Title: "Dev", Company: "A", From: time.Now()})
	second := p.AddExperience(Experience{Title: "Lead", Company: "B", From: time.Now()})

	require.Len(t, p.Experience, 2)
	assert.Equal(t, second.ID, p.Experience[0].ID, "newest first")

	require.NoError(t, p.RemoveExperience(first.ID))
	require.Len(t, p.Experience, 1)
	assert.Equal(t, second.ID, p.Experience[0].ID)

	assert.ErrorIs(t, p.RemoveExperience(first.ID), ErrExperienceNotFound)
}

func TestProfile_Education(t *testing.T) {
	p := NewProfile(primitive.NewObjectID())
	a := p.AddEducation(Education{School: "S1", Degree: "BSc", FieldOfStudy: "CS"})
	b := p.AddEducation(Education{School: "S2", Degree: "MSc", FieldOfStudy: "CS"})

	require.NoError(t, p.RemoveEducation(b.ID))
	require.Len(t, p.Education, 1)
	assert.Equal(t, a.ID, p.Education[0].ID)
	assert.ErrorIs(t, p.RemoveEducation(b.ID), ErrEducationNotFound)
}

func TestProfile_NormalizeJSON(t *testing.T) {
	userID := primitive.NewObjectID()
	p := &Profile{ID: primitive.NewObjectID(), UserID: userID, Status: "Dev"}
	p.Normalize()

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, []interface{}{}, body["skills"])
	assert.Equal(t, []interface{}{}, body["experience"])
	assert.Equal(t, userID.Hex(), body["user"].(map[string]interface{})["_id"])
}
