// Package queries loads the statement manifest that supplies the three
// ordered statement lists (copy, insert, analytic).
//
// The manifest is YAML. Each list item is either a bare SQL string or a
// mapping with a name and exactly one of sql or file:
//
//	copy:
//	  - name: staging_events
//	    sql: |
//	      COPY staging_events FROM '{{ .S3.LOG_DATA }}'
//	      IAM_ROLE '{{ .IAM_ROLE.ARN }}'
//	      FORMAT AS JSON '{{ .S3.LOG_JSONPATH }}';
//	insert:
//	  - file: sql/songplays.sql
//	analytic:
//	  - SELECT COUNT(*) FROM songplays;
//
// Statement text is expanded with text/template using the dwh.cfg sections
// as data. A reference to a missing section or key is an error. Paths in
// file entries are relative to the manifest's directory.
//
// Statements are otherwise opaque: nothing here parses or validates SQL.
package queries
