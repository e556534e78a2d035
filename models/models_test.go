package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

func TestNullableDecoding(t *testing.T) {
	var in struct {
		Omitted  Nullable[string]  `json:"omitted"`
		Null     Nullable[string]  `json:"null"`
		Empty    Nullable[string]  `json:"empty"`
		Value    Nullable[string]  `json:"value"`
		Score    Nullable[float64] `json:"score"`
		NoScore  Nullable[float64] `json:"no_score"`
		Finished Nullable[Date]    `json:"finished"`
	}
	body := `{"null":null,"empty":"","value":"x","score":9.5,"no_score":"","finished":"2024-03-01"}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.False(t, in.Omitted.Set)
	assert.True(t, in.Null.Set)
	assert.False(t, in.Null.Valid)
	assert.True(t, in.Empty.Set)
	assert.False(t, in.Empty.Valid)
	assert.Equal(t, "x", *in.Value.Ptr())
	assert.Equal(t, 9.5, in.Score.Value)
	assert.False(t, in.NoScore.Valid)
	assert.Equal(t, "2024-03-01", in.Finished.Value.String())
}

func TestNullableRejectsWrongType(t *testing.T) {
	var in struct {
		Score Nullable[float64] `json:"score"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"score":"high"}`), &in))
}

func TestNullableMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Nullable[string] `json:"a"`
		B Nullable[int]    `json:"b"`
	}{A: Null[string](), B: NewNullable(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":null,"b":3}`, string(out))
}

func TestDateParsing(t *testing.T) {
	d, err := ParseDate("2023-11-05T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2023-11-05", d.String())

	_, err = ParseDate("05/11/2023")
	assert.Error(t, err)

	var scanned Date
	require.NoError(t, scanned.Scan(time.Date(2022, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2022-01-02", scanned.String())
	require.NoError(t, scanned.Scan([]byte("2021-06-07")))
	assert.Equal(t, "2021-06-07", scanned.String())
	assert.Error(t, scanned.Scan(42))
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func TestCertificationUpdateSemantics(t *testing.T) {
	// explicit null clears, omitted is left alone, null on a required field is ignored
	in := decode[CertificationInput](t, `{"expiry_date":null,"issuer":null,"skills":["go"]}`)
	require.NoError(t, in.ValidateUpdate())
	updates := in.Updates()

	value, ok := updates["expiry_date"]
	assert.True(t, ok)
	assert.Nil(t, value)
	assert.NotContains(t, updates, "issuer")
	assert.NotContains(t, updates, "credential_id")
	assert.Equal(t, datatypes.JSONSlice[string]{"go"}, updates["skills"])
	assert.Contains(t, updates, "updated_at")
}

func TestCertificationCreateRequiresFields(t *testing.T) {
	in := decode[CertificationInput](t, `{"name":"CKA","slug":"cka","issuer":"CNCF"}`)
	err := in.ValidateCreate()
	require.Error(t, err)
	assert.True(t, errs.IsBadRequest(err))
	assert.Equal(t, "issue_date is required", err.Error())
}

func TestCertificationLevelEnum(t *testing.T) {
	in := decode[CertificationInput](t, `{"level":"guru"}`)
	err := in.ValidateUpdate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level")

	in = decode[CertificationInput](t, `{"level":null}`)
	assert.NoError(t, in.ValidateUpdate())
}

func TestCertificationDefaults(t *testing.T) {
	in := decode[CertificationInput](t, `{"name":"CKA","slug":"cka","issuer":"CNCF","issue_date":"2024-01-10"}`)
	require.NoError(t, in.ValidateCreate())
	m := in.Model()
	assert.Equal(t, StatusDraft, m.Status)
	assert.False(t, m.Featured)
	assert.NotNil(t, m.Skills)
	assert.Empty(t, m.Skills)
	assert.Nil(t, m.ExpiryDate)
}

func TestHackathonDefaults(t *testing.T) {
	in := decode[HackathonInput](t, `{"name":"HackMIT","slug":"hackmit","event_date":"2024-09-14"}`)
	require.NoError(t, in.ValidateCreate())
	m := in.Model()
	assert.False(t, m.ShowScore)
	assert.True(t, m.ShowPosition)
	assert.Equal(t, ResultParticipant, m.Result)
	assert.Nil(t, m.Score)
}

func TestHackathonResultEnum(t *testing.T) {
	in := decode[HackathonInput](t, `{"name":"x","slug":"x","event_date":"2024-09-14","result":"gold"}`)
	assert.Error(t, in.ValidateCreate())
}

func TestUpdateRejectsBlankRequiredField(t *testing.T) {
	in := decode[ArticleInput](t, `{"title":"  "}`)
	err := in.ValidateUpdate()
	require.Error(t, err)
	assert.Equal(t, "title is required", err.Error())
}

func TestArticleDefaults(t *testing.T) {
	in := decode[ArticleInput](t, `{"title":"Hello","slug":"hello"}`)
	m := in.Model()
	assert.Equal(t, DefaultReadTime, m.ReadTime)
	assert.Equal(t, StatusDraft, m.Status)
	assert.Empty(t, m.Tags)
}

func TestCurrentClearsEndDate(t *testing.T) {
	in := decode[ExperienceInput](t, `{"company":"Acme","role":"Eng","start_date":"2020-01-01","end_date":"2021-01-01","current":true}`)
	assert.Nil(t, in.Model().EndDate)

	updates := in.Updates()
	assert.Contains(t, updates, "end_date")
	assert.Nil(t, updates["end_date"])
}

func TestBookingAlwaysStartsPending(t *testing.T) {
	in := decode[BookingInput](t, `{"meeting_type":"intro","booking_date":"2025-02-01","booking_time":"10:30",
		"client_name":"Sam","client_email":"sam@example.com","status":"confirmed"}`)
	require.NoError(t, in.ValidateCreate())
	assert.Equal(t, BookingPending, in.Model().Status)
}

func TestBookingEmailValidated(t *testing.T) {
	in := decode[BookingInput](t, `{"meeting_type":"intro","booking_date":"2025-02-01","booking_time":"10:30",
		"client_name":"Sam","client_email":"not-an-email"}`)
	err := in.ValidateCreate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_email")
}

func TestProjectScreenshotRows(t *testing.T) {
	in := decode[ProjectInput](t, `{"title":"P","slug":"p","screenshots":[{"image_url":"/a.png"},{"image_url":"/b.png","caption":"b"}]}`)
	require.NoError(t, in.ValidateCreate())
	m := in.Model()
	m.ID = [16]byte{1}
	rows := in.ScreenshotRows(m.ID)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].SortOrder)
	assert.Equal(t, 1, rows[1].SortOrder)
	assert.Equal(t, m.ID, rows[1].ProjectID)

	omitted := decode[ProjectInput](t, `{"title":"P"}`)
	assert.Nil(t, omitted.ScreenshotRows(m.ID))

	cleared := decode[ProjectInput](t, `{"screenshots":[]}`)
	assert.NotNil(t, cleared.ScreenshotRows(m.ID))
	assert.Empty(t, cleared.ScreenshotRows(m.ID))
}

func TestProjectScreenshotNeedsImage(t *testing.T) {
	in := decode[ProjectInput](t, `{"title":"P","slug":"p","screenshots":[{"caption":"no image"}]}`)
	assert.Error(t, in.ValidateCreate())
}

func TestSettingsRows(t *testing.T) {
	in := decode[SettingsInput](t, `{"site_title":"Portfolio","show_blog":true,"max":3}`)
	folded := FoldSettings(in.Rows())
	assert.Equal(t, map[string]string{"site_title": "Portfolio", "show_blog": "true", "max": "3"}, folded)
}
