package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/templui/mediafaves/internal/errs"
	"github.com/templui/mediafaves/internal/model"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
	MaxQueryLength = 100
)

type Credentials struct {
	Email    string
	Password string
}

type SearchParams struct {
	Query   string
	Type    string
	Page    int
	PerPage int
}

type ListParams struct {
	Page    int
	PerPage int
}

type AddFavorite struct {
	ContentID   string
	ContentType string
	ContentData model.ContentData
}

// checker collects every failure so the client sees all problems at once.
type checker struct {
	problems []string
}

func (c *checker) fail(msg string) {
	c.problems = append(c.problems, msg)
}

func (c *checker) err() error {
	if len(c.problems) == 0 {
		return nil
	}
	return errs.Validation(strings.Join(c.problems, ", "))
}

// decodeObject parses a JSON body into its top-level fields. An empty body
// is treated as {} so that missing fields are reported individually.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) == 0 {
		return fields, nil
	}
	err := json.Unmarshal(body, &fields)
	if err != nil {
		return nil, errs.Validation("Invalid request body")
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// stringField reads a required string. requiredMsg overrides the default
// message for a missing key.
func (c *checker) stringField(fields map[string]json.RawMessage, key, requiredMsg string) (string, bool) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		if requiredMsg == "" {
			requiredMsg = fmt.Sprintf("%q is required", key)
		}
		c.fail(requiredMsg)
		return "", false
	}

	var s string
	err := json.Unmarshal(raw, &s)
	if err != nil {
		c.fail(fmt.Sprintf("%q must be a string", key))
		return "", false
	}
	if s == "" {
		c.fail(fmt.Sprintf("%q is not allowed to be empty", key))
		return "", false
	}
	return s, true
}

func ParseRegister(body []byte) (Credentials, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return Credentials{}, err
	}

	var c checker
	email, ok := c.stringField(fields, "email", "Email is required")
	if ok && ValidateEmail(NormalizeEmail(email)) != nil {
		c.fail("Invalid email format")
	}

	password, ok := c.stringField(fields, "password", "Password is required")
	if ok {
		for _, problem := range PasswordProblems(password) {
			c.fail(problem.Error())
		}
	}

	if err := c.err(); err != nil {
		return Credentials{}, err
	}
	return Credentials{Email: NormalizeEmail(email), Password: password}, nil
}

// ParseLogin only checks presence; format problems surface as invalid credentials.
func ParseLogin(body []byte) (Credentials, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return Credentials{}, err
	}

	var c checker
	email, _ := c.stringField(fields, "email", "Email is required")
	password, _ := c.stringField(fields, "password", "Password is required")

	if err := c.err(); err != nil {
		return Credentials{}, err
	}
	return Credentials{Email: NormalizeEmail(email), Password: password}, nil
}

func ParseSearch(query url.Values) (SearchParams, error) {
	var c checker
	params := SearchParams{Type: model.ContentTypePhoto}

	if !query.Has("query") {
		c.fail("Search query is required")
	} else {
		q := query.Get("query")
		switch {
		case q == "":
			c.fail(`"query" is not allowed to be empty`)
		case utf8.RuneCountInString(q) > MaxQueryLength:
			c.fail(fmt.Sprintf("Search query cannot exceed %d characters", MaxQueryLength))
		default:
			params.Query = q
		}
	}

	if query.Has("type") {
		t := query.Get("type")
		if !model.ValidContentType(t) {
			c.fail(`"type" must be one of [photo, video]`)
		} else {
			params.Type = t
		}
	}

	params.Page = c.intParam(query, "page", DefaultPage, 1, math.MaxInt32)
	params.PerPage = c.intParam(query, "per_page", DefaultPerPage, 1, MaxPerPage)

	if err := c.err(); err != nil {
		return SearchParams{}, err
	}
	return params, nil
}

func ParseList(query url.Values) (ListParams, error) {
	var c checker
	params := ListParams{
		Page:    c.intParam(query, "page", DefaultPage, 1, math.MaxInt32),
		PerPage: c.intParam(query, "per_page", DefaultPerPage, 1, MaxPerPage),
	}

	if err := c.err(); err != nil {
		return ListParams{}, err
	}
	return params, nil
}

// intParam converts a query value the way a lenient schema would: absent
// means default, otherwise it must be an integer within [min, max].
func (c *checker) intParam(query url.Values, key string, def, min, max int) int {
	if !query.Has(key) {
		return def
	}

	v := strings.TrimSpace(query.Get(key))
	n, err := strconv.Atoi(v)
	if err != nil {
		if _, ferr := strconv.ParseFloat(v, 64); ferr == nil {
			c.fail(fmt.Sprintf("%q must be an integer", key))
		} else {
			c.fail(fmt.Sprintf("%q must be a number", key))
		}
		return def
	}

	if n < min {
		c.fail(fmt.Sprintf("%q must be greater than or equal to %d", key, min))
		return def
	}
	if n > max {
		c.fail(fmt.Sprintf("%q must be less than or equal to %d", key, max))
		return def
	}
	return n
}

func ParseAddFavorite(body []byte) (AddFavorite, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return AddFavorite{}, err
	}

	var c checker
	contentID, _ := c.stringField(fields, "contentId", "")

	contentType, ok := c.stringField(fields, "contentType", "")
	if ok && !model.ValidContentType(contentType) {
		c.fail(`"contentType" must be one of [photo, video]`)
	}

	raw, present := fields["contentData"]
	data := model.ContentData(bytes.TrimSpace(raw))
	switch {
	case !present || isNull(raw):
		c.fail(`"contentData" is required`)
	case !data.IsObject():
		c.fail(`"contentData" must be of type object`)
	}

	if err := c.err(); err != nil {
		return AddFavorite{}, err
	}
	return AddFavorite{ContentID: contentID, ContentType: contentType, ContentData: data}, nil
}

type PasswordChange struct {
	CurrentPassword string
	NewPassword     string
}

func ParsePasswordChange(body []byte) (PasswordChange, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return PasswordChange{}, err
	}

	var c checker
	current, _ := c.stringField(fields, "currentPassword", "Current password is required")
	next, ok := c.stringField(fields, "newPassword", "New password is required")
	if ok {
		for _, problem := range PasswordProblems(next) {
			c.fail(problem.Error())
		}
	}

	if err := c.err(); err != nil {
		return PasswordChange{}, err
	}
	return PasswordChange{CurrentPassword: current, NewPassword: next}, nil
}
