// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"slices"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// Entity to projection mapping. Every derived field is passed in
// explicitly so these stay pure.

func toArticleSummary(a *models.Article, authorName, categoryName string, tags []string) ArticleSummary {
	if tags == nil {
		tags = []string{}
	}
	return ArticleSummary{
		ID:            a.ID,
		Title:         a.Title,
		Summary:       a.Summary,
		Slug:          a.Slug,
		CoverImageURL: a.CoverImageURL,
		AuthorID:      a.AuthorID,
		AuthorName:    authorName,
		CategoryID:    a.CategoryID,
		CategoryName:  categoryName,
		PublishedAt:   a.PublishedAt,
		CreatedDate:   a.CreatedAt,
		ViewCount:     a.ViewCount,
		LikeCount:     a.LikeCount,
		CommentCount:  a.CommentCount,
		ShareCount:    a.ShareCount,
		IsFeatured:    a.IsFeatured,
		IsOnHomePage:  a.IsOnHomePage,
		Status:        a.Status,
		ReadingTime:   a.ReadingTime,
		Tags:          tags,
	}
}

func toArticleDetail(a *models.Article, authorName, categoryName string, tags []string, tagIDs []uuid.UUID, contentHTML string) ArticleDetail {
	if tagIDs == nil {
		tagIDs = []uuid.UUID{}
	}
	return ArticleDetail{
		ArticleSummary:  toArticleSummary(a, authorName, categoryName, tags),
		Content:         a.Content,
		ContentHTML:     contentHTML,
		MetaKeywords:    a.MetaKeywords,
		MetaDescription: a.MetaDescription,
		TagIDs:          tagIDs,
		ModifiedDate:    a.ModifiedAt,
		IsDeleted:       a.IsDeleted,
		IsPublish:       a.IsPublish,
	}
}

func toCategorySummary(c *models.Category, parentName string) CategorySummary {
	return CategorySummary{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		Slug:             c.Slug,
		Icon:             c.Icon,
		Color:            c.Color,
		ParentCategoryID: c.ParentCategoryID,
		ParentName:       parentName,
		Order:            c.Order,
		IsPublish:        c.IsPublish,
	}
}

func toCategoryDetail(c *models.Category, parentName string, subCategories, articles int) CategoryDetail {
	return CategoryDetail{
		CategorySummary:  toCategorySummary(c, parentName),
		SubCategoryCount: subCategories,
		ArticleCount:     articles,
		CreatedDate:      c.CreatedAt,
		ModifiedDate:     c.ModifiedAt,
		IsDeleted:        c.IsDeleted,
	}
}

func toTagSummary(t *models.Tag) TagSummary {
	return TagSummary{
		ID:          t.ID,
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		UsageCount:  t.UsageCount,
		IsPublish:   t.IsPublish,
	}
}

func toTagDetail(t *models.Tag, articles int) TagDetail {
	return TagDetail{
		TagSummary:   toTagSummary(t),
		ArticleCount: articles,
		CreatedDate:  t.CreatedAt,
		ModifiedDate: t.ModifiedAt,
		IsDeleted:    t.IsDeleted,
	}
}

func toCommentSummary(c *models.Comment, userName, articleTitle string, replies int) CommentSummary {
	return CommentSummary{
		ID:              c.ID,
		Content:         c.Content,
		ArticleID:       c.ArticleID,
		ArticleTitle:    articleTitle,
		UserID:          c.UserID,
		UserName:        userName,
		ParentCommentID: c.ParentCommentID,
		LikeCount:       c.LikeCount,
		Status:          c.Status,
		ReplyCount:      replies,
		CreatedDate:     c.CreatedAt,
		ModifiedDate:    c.ModifiedAt,
	}
}

// buildTree nests flat categories under their parents. cats must already
// be in display order; children keep that order. A category whose parent
// is not in cats becomes a root.
func buildTree(cats []models.Category) []CategoryNode {
	present := make(map[uuid.UUID]models.Category, len(cats))
	for _, c := range cats {
		present[c.ID] = c
	}
	children := make(map[uuid.UUID][]models.Category)
	var roots []models.Category
	for _, c := range cats {
		if c.ParentCategoryID != nil {
			if _, ok := present[*c.ParentCategoryID]; ok && *c.ParentCategoryID != c.ID {
				children[*c.ParentCategoryID] = append(children[*c.ParentCategoryID], c)
				continue
			}
		}
		roots = append(roots, c)
	}

	seen := make(map[uuid.UUID]bool, len(cats))
	var build func(c models.Category, parentName string, depth int) CategoryNode
	build = func(c models.Category, parentName string, depth int) CategoryNode {
		seen[c.ID] = true
		node := CategoryNode{CategorySummary: toCategorySummary(&c, parentName), Depth: depth, Children: []CategoryNode{}}
		for _, child := range children[c.ID] {
			if !seen[child.ID] {
				node.Children = append(node.Children, build(child, c.Name, depth+1))
			}
		}
		return node
	}

	tree := make([]CategoryNode, 0, len(roots))
	for _, r := range roots {
		tree = append(tree, build(r, "", 0))
	}
	return tree
}

// uniqueIDs returns ids without duplicates, keeping first occurrences.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
