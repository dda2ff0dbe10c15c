package server

import (
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/bloghub-admin/contentapi"
	"github.com/jrsteele09/bloghub-admin/internal/errors"
)

var iconNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// newFormValidator validates the admin write forms. Errors name fields by their label tag.
func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); label != "" {
			return label
		}
		return field.Name
	})
	_ = v.RegisterValidation("iconname", func(fl validator.FieldLevel) bool {
		return iconNamePattern.MatchString(fl.Field().String())
	})
	return v
}

type userForm struct {
	Fullname string `label:"Full name" validate:"max=100"`
	Email    string `label:"Email" validate:"required,email"`
	Role     string `label:"Role" validate:"required,oneof=admin author reader"`
	Status   string `label:"Status" validate:"required,oneof=active suspended"`
}

func userFormFromRequest(r *http.Request) userForm {
	return userForm{
		Fullname: strings.TrimSpace(r.PostFormValue("fullname")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Role:     r.PostFormValue("role"),
		Status:   r.PostFormValue("status"),
	}
}

func (f userForm) update() contentapi.UserUpdate {
	return contentapi.UserUpdate{Fullname: f.Fullname, Email: f.Email, Role: f.Role, Status: f.Status}
}

type categoryForm struct {
	Name     string `label:"Name" validate:"required,min=2,max=50"`
	IconName string `label:"Icon name" validate:"required,min=2,max=30,iconname"`
}

func categoryFormFromRequest(r *http.Request) categoryForm {
	return categoryForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		IconName: strings.TrimSpace(r.PostFormValue("icon_name")),
	}
}

func (f categoryForm) input() contentapi.CategoryInput {
	return contentapi.CategoryInput{Name: f.Name, IconName: f.IconName}
}

type articleForm struct {
	Title     string `label:"Title" validate:"required,max=200"`
	Content   string `label:"Content" validate:"required"`
	Published bool
	Category  string `label:"Category" validate:"omitempty,number"`
}

func articleFormFromRequest(r *http.Request) articleForm {
	return articleForm{
		Title:     strings.TrimSpace(r.PostFormValue("title")),
		Content:   strings.TrimSpace(r.PostFormValue("content")),
		Published: r.PostFormValue("is_published") != "",
		Category:  r.PostFormValue("category"),
	}
}

// input assumes the form has been validated
func (f articleForm) input() contentapi.ArticleInput {
	in := contentapi.ArticleInput{Title: f.Title, Content: f.Content, IsPublished: f.Published}
	if id, err := strconv.Atoi(f.Category); err == nil {
		in.Category = &id
	}
	return in
}

// formErrorMessage turns the first failed rule into a sentence for the page
func formErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "The form could not be read"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "iconname":
		return fe.Field() + " may only use lowercase letters, digits and hyphens"
	case "number":
		return "Choose a category from the list"
	default:
		return fe.Field() + " is invalid"
	}
}

// pathID is the numeric {id} path segment, false when missing or malformed
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
