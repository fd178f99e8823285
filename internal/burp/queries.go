package burp

// GraphQL documents sent to the scanner.
const (
	createSiteMutation = `
    mutation CreateSite($input: CreateSiteInput!) {
        create_site(input: $input) {
            site {
                name
                id
                scope_v2 {
                    start_urls
                    in_scope_url_prefixes
                    out_of_scope_url_prefixes
                    protocol_options
                }
            }
        }
    }`

	createScheduleItemMutation = `
    mutation StartScan($input: CreateScheduleItemInput!) {
        create_schedule_item(input: $input) {
            schedule_item {
                id
            }
        }
    }`

	scanByScheduleItemQuery = `
    query GetScan($schedule_item_id: ID) {
        scans(limit: 1, schedule_item_id: $schedule_item_id) {
            id
        }
    }`

	scanStatusQuery = `
    query GetScan($id: ID!) {
        scan(id: $id) {
            status
        }
    }`

	scanIssuesQuery = `
    query GetScan($id: ID!) {
        scan(id: $id) {
            issues(start: 0, count: 2147483647) {
                issue_type {
                    name
                }
                severity
                confidence
                path
            }
        }
    }`
)
