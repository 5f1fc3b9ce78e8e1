package handler

// loginRequest carries the form-encoded login credentials.
type loginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// registerRequest carries the form-encoded registration fields. Name, age and
// address end up in the user's profile attribute map.
//
// The password max=72 counts runes; the hasher enforces bcrypt's 72-byte
// limit and its error maps to a 400.
type registerRequest struct {
	Username string `form:"username" validate:"required,min=3,max=64"`
	Password string `form:"password" validate:"required,min=8,max=72"`
	Name     string `form:"name" validate:"omitempty,max=128"`
	Age      string `form:"age" validate:"omitempty,numeric"`
	Address  string `form:"address" validate:"omitempty,max=256"`
}

func (r registerRequest) profile() map[string]string {
	profile := make(map[string]string)
	for key, value := range map[string]string{
		"name":    r.Name,
		"age":     r.Age,
		"address": r.Address,
	} {
		if value != "" {
			profile[key] = value
		}
	}
	if len(profile) == 0 {
		return nil
	}
	return profile
}

// formDescriptor describes a login/registration form for API consumers; the
// service has no templating layer, rendering belongs to the frontend.
type formDescriptor struct {
	Title  string   `json:"title"`
	Action string   `json:"action"`
	Fields []string `json:"fields"`
}
