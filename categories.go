package main

import (
	"strings"
)

type CategoryDef struct {
	Ext      string
	Category string
}

const otherCategory = "other"

var defaultCategories = []CategoryDef{
	{Ext: "txt", Category: "text"},
	{Ext: "md", Category: "text"},
	{Ext: "rst", Category: "text"},
	{Ext: "log", Category: "text"},
	{Ext: "csv", Category: "text"},
	{Ext: "pdf", Category: "document"},
	{Ext: "doc", Category: "document"},
	{Ext: "docx", Category: "document"},
	{Ext: "odt", Category: "document"},
	{Ext: "xls", Category: "document"},
	{Ext: "xlsx", Category: "document"},
	{Ext: "ppt", Category: "document"},
	{Ext: "pptx", Category: "document"},

	{Ext: "jpg", Category: "image"},
	{Ext: "jpeg", Category: "image"},
	{Ext: "png", Category: "image"},
	{Ext: "gif", Category: "image"},
	{Ext: "bmp", Category: "image"},
	{Ext: "webp", Category: "image"},
	{Ext: "svg", Category: "image"},
	{Ext: "heic", Category: "image"},
	{Ext: "tiff", Category: "image"},
	{Ext: "ico", Category: "image"},

	{Ext: "mp3", Category: "audio"},
	{Ext: "wav", Category: "audio"},
	{Ext: "flac", Category: "audio"},
	{Ext: "ogg", Category: "audio"},
	{Ext: "m4a", Category: "audio"},
	{Ext: "mp4", Category: "video"},
	{Ext: "mkv", Category: "video"},
	{Ext: "mov", Category: "video"},
	{Ext: "avi", Category: "video"},
	{Ext: "webm", Category: "video"},

	{Ext: "zip", Category: "archive"},
	{Ext: "tar", Category: "archive"},
	{Ext: "gz", Category: "archive"},
	{Ext: "tgz", Category: "archive"},
	{Ext: "bz2", Category: "archive"},
	{Ext: "xz", Category: "archive"},
	{Ext: "7z", Category: "archive"},
	{Ext: "rar", Category: "archive"},

	{Ext: "go", Category: "code"},
	{Ext: "rs", Category: "code"},
	{Ext: "py", Category: "code"},
	{Ext: "js", Category: "code"},
	{Ext: "ts", Category: "code"},
	{Ext: "tsx", Category: "code"},
	{Ext: "jsx", Category: "code"},
	{Ext: "java", Category: "code"},
	{Ext: "kt", Category: "code"},
	{Ext: "c", Category: "code"},
	{Ext: "h", Category: "code"},
	{Ext: "cpp", Category: "code"},
	{Ext: "cs", Category: "code"},
	{Ext: "rb", Category: "code"},
	{Ext: "php", Category: "code"},
	{Ext: "sh", Category: "code"},

	{Ext: "json", Category: "data"},
	{Ext: "yaml", Category: "data"},
	{Ext: "yml", Category: "data"},
	{Ext: "toml", Category: "data"},
	{Ext: "xml", Category: "data"},
	{Ext: "ini", Category: "data"},
	{Ext: "sql", Category: "data"},
	{Ext: "db", Category: "data"},

	{Ext: "tmp", Category: "temporary"},
	{Ext: "bak", Category: "temporary"},
	{Ext: "swp", Category: "temporary"},
	{Ext: "part", Category: "temporary"},
	{Ext: "crdownload", Category: "temporary"},

	{Ext: "exe", Category: "binary"},
	{Ext: "dll", Category: "binary"},
	{Ext: "so", Category: "binary"},
	{Ext: "dylib", Category: "binary"},
	{Ext: "o", Category: "binary"},
	{Ext: "a", Category: "binary"},
	{Ext: "class", Category: "binary"},
	{Ext: "jar", Category: "binary"},
}

var categoryByExt = buildCategoryMap(defaultCategories)

func buildCategoryMap(defs []CategoryDef) map[string]string {
	categories := make(map[string]string, len(defs))
	for _, def := range defs {
		categories[def.Ext] = def.Category
	}
	return categories
}

func categoryFor(key string) string {
	if key == "" {
		return "none"
	}
	if category, ok := categoryByExt[key]; ok {
		return category
	}
	return otherCategory
}

func parseList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
