package catalog

// Default returns the bundled catalog used when no catalog file is
// configured. It mirrors the test cases the generator agent ships as a
// demonstration artifact.
func Default() *Catalog {
	items := []Item{
		{
			ID:             "TC001",
			Title:          "Valid user registration with all required fields",
			Complexity:     "Medium complexity",
			Duration:       "15 mins",
			Status:         StatusPendingReview,
			Description:    "Verify that a user can successfully register with valid email, password, and personal information",
			Tags:           []string{"registration", "happy path", "critical"},
			Preconditions:  "User is on registration page",
			Dependencies:   "None",
			Steps:          []string{"Enter valid email address", "Enter strong password", "Confirm password", "Fill personal information", "Click Register button"},
			ExpectedResult: "User account created successfully, confirmation email sent",
		},
		{
			ID:             "TC002",
			Title:          "Registration with invalid email format",
			Complexity:     "Low complexity",
			Duration:       "10 mins",
			Status:         StatusApproved,
			Description:    "Verify system handles invalid email format during registration",
			Tags:           []string{"registration", "validation", "negative"},
			Preconditions:  "User is on registration page",
			Dependencies:   "None",
			Steps:          []string{"Enter invalid email format", "Fill other required fields", "Click Register button"},
			ExpectedResult: "Error message displayed for invalid email format",
		},
		{
			ID:             "TC003",
			Title:          "Password strength validation",
			Complexity:     "Low complexity",
			Duration:       "10 mins",
			Status:         StatusNeedsRevision,
			Description:    "Verify password strength validation during registration",
			Tags:           []string{"registration", "security", "validation"},
			Preconditions:  "User is on registration page",
			Dependencies:   "None",
			Steps:          []string{"Enter valid email", "Enter weak password", "Fill other fields", "Click Register button"},
			ExpectedResult: "Password strength error displayed",
		},
		{
			ID:             "TC004",
			Title:          "Duplicate email validation",
			Complexity:     "Low complexity",
			Duration:       "10 mins",
			Status:         StatusPendingApproval,
			Description:    "Verify duplicate email validation during registration",
			Tags:           []string{"registration", "validation", "edge case"},
			Preconditions:  "User with test email already exists",
			Dependencies:   "Existing user account",
			Steps:          []string{"Enter existing email address", "Fill other required fields", "Click Register button"},
			ExpectedResult: "Error message for duplicate email displayed",
		},
		{
			ID:             "TC005",
			Title:          "Mandatory field validation",
			Complexity:     "Low complexity",
			Duration:       "10 mins",
			Status:         StatusNeedsRevision,
			Description:    "Verify mandatory field validation during registration",
			Tags:           []string{"registration", "validation", "boundary"},
			Preconditions:  "User is on registration page",
			Dependencies:   "None",
			Steps:          []string{"Leave email field empty", "Fill other required fields", "Click Register button"},
			ExpectedResult: "Required field validation error displayed",
		},
	}
	cat, err := New(items)
	if err != nil {
		// The bundled items are fixed at build time; a failure here is a
		// programming error.
		panic(err)
	}
	return cat
}
