package config

// EnvPrefix is intentionally empty; every field names its variable in full.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "PRESERVE_DB_DSN"
	EnvDBHost = "PRESERVE_DB_HOST"
	EnvDBUser = "PRESERVE_DB_USER"
	EnvDBName = "PRESERVE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
