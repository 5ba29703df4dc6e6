package persistence

// StateSchema is the JSON Schema a stored session must satisfy before it is
// trusted.
const StateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["tabs"],
  "properties": {
    "tabs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": {
            "type": "string",
            "minLength": 1
          },
          "content": {
            "type": "string"
          },
          "filePath": {
            "type": ["string", "null"]
          },
          "fileName": {
            "type": ["string", "null"]
          },
          "isModified": {
            "type": "boolean"
          },
          "isDefault": {
            "type": "boolean"
          },
          "isPinned": {
            "type": "boolean"
          },
          "stats": {
            "type": ["object", "null"],
            "properties": {
              "valid": {"type": "boolean"},
              "keyCount": {"type": "integer", "minimum": 0},
              "depth": {"type": "integer", "minimum": 0},
              "byteSize": {"type": "integer", "minimum": 0},
              "errorInfo": {"type": ["object", "null"]}
            }
          }
        }
      }
    },
    "activeTabId": {
      "type": ["string", "null"]
    }
  }
}`
