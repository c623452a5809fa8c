package asgdnsconfig

const (
	ENV_HOSTED_ZONE_ID = "hosted_zone_id"
	ENV_DOMAIN_NAME    = "domain_name"
	ENV_AWS_REGION     = "aws_region"
	ENV_WAIT_FOR_SYNC  = "wait_for_sync"
)

const (
	DEFAULT_CONFIG_FILE = ".asgdns"
)
