package dynamo

// DynamoDB attribute names used in key conditions and update expressions.
const (
	fieldEmail         = "email"
	fieldSK            = "sk"
	fieldUserID        = "user_id"
	fieldAttempts      = "attempts"
	fieldUsed          = "used"
	fieldExpiresAt     = "expires_at"
	fieldVersion       = "version"
	fieldEmailVerified = "email_verified"
	fieldUpdatedAt     = "updated_at"

	indexUserID = "user_id-index"

	skHead      = "#head"
	skOTPPrefix = "otp#"
)
