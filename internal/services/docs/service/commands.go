package service

import (
	"context"

	"quill/internal/services/docs/domain"
	writerdom "quill/internal/services/writer/domain"
)

func (s *Svc) doCreate(ctx context.Context, cmd domain.CreateDocumentCmd) (domain.Document, error) {
	return submit[domain.Document](ctx, s, cmd.RequestID, func(ctx context.Context, scope *writerdom.TxScope) (any, error) {
		ok, err := s.keys.TryRegister(ctx, scope.Q, cmd.RequestID, scope.Clock.Now())
		if err != nil {
			return nil, err
		}
		if !ok {
			return duplicate{requestID: cmd.RequestID}, nil
		}

		now := scope.Clock.Now().UTC()
		d := domain.Document{
			ID:          s.newID(),
			Title:       cmd.Title,
			Mime:        cmd.Mime,
			Author:      cmd.Author,
			Content:     cmd.Content,
			Version:     1,
			SearchStale: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.bind.Bind(scope.Q).Insert(ctx, d); err != nil {
			return nil, err
		}
		scope.Docs.Added(d.ID)
		scope.Docs.Raise(domain.ReindexEvent{DocID: d.ID, Reason: domain.ReasonCreated, OccurredAt: now})
		return d, nil
	})
}

func (s *Svc) doRename(ctx context.Context, cmd domain.RenameDocumentCmd) (domain.Document, error) {
	return submit[domain.Document](ctx, s, cmd.RequestID, func(ctx context.Context, scope *writerdom.TxScope) (any, error) {
		ok, err := s.keys.TryRegister(ctx, scope.Q, cmd.RequestID, scope.Clock.Now())
		if err != nil {
			return nil, err
		}
		if !ok {
			return duplicate{requestID: cmd.RequestID}, nil
		}

		st := s.bind.Bind(scope.Q)
		cur, err := st.Get(ctx, cmd.DocID)
		if err != nil {
			return nil, err
		}
		if cur.Title == cmd.Title {
			// nothing changed; no version bump, no reindex
			return cur, nil
		}

		exp := cmd.ExpectedVersion
		if exp == 0 {
			exp = cur.Version
		}
		now := scope.Clock.Now().UTC()
		cur.Title = cmd.Title
		cur.Version = exp + 1
		cur.SearchStale = true
		cur.UpdatedAt = now
		if err := st.Update(ctx, cur, exp); err != nil {
			return nil, err
		}
		scope.Docs.Modified(cur.ID)
		scope.Docs.Raise(domain.ReindexEvent{DocID: cur.ID, Reason: domain.ReasonMetadataChanged, OccurredAt: now})
		return cur, nil
	})
}

func (s *Svc) doUpdateContent(ctx context.Context, cmd domain.UpdateContentCmd) (domain.Document, error) {
	return submit[domain.Document](ctx, s, cmd.RequestID, func(ctx context.Context, scope *writerdom.TxScope) (any, error) {
		ok, err := s.keys.TryRegister(ctx, scope.Q, cmd.RequestID, scope.Clock.Now())
		if err != nil {
			return nil, err
		}
		if !ok {
			return duplicate{requestID: cmd.RequestID}, nil
		}

		st := s.bind.Bind(scope.Q)
		cur, err := st.Get(ctx, cmd.DocID)
		if err != nil {
			return nil, err
		}

		exp := cmd.ExpectedVersion
		if exp == 0 {
			exp = cur.Version
		}
		now := scope.Clock.Now().UTC()
		cur.Content = cmd.Content
		if cmd.Mime != "" {
			cur.Mime = cmd.Mime
		}
		cur.Version = exp + 1
		cur.SearchStale = true
		cur.UpdatedAt = now
		if err := st.Update(ctx, cur, exp); err != nil {
			return nil, err
		}
		scope.Docs.Modified(cur.ID)
		scope.Docs.Raise(domain.ReindexEvent{DocID: cur.ID, Reason: domain.ReasonContentChanged, OccurredAt: now})
		return cur, nil
	})
}

func (s *Svc) doDelete(ctx context.Context, cmd domain.DeleteDocumentCmd) (string, error) {
	return submit[string](ctx, s, cmd.RequestID, func(ctx context.Context, scope *writerdom.TxScope) (any, error) {
		ok, err := s.keys.TryRegister(ctx, scope.Q, cmd.RequestID, scope.Clock.Now())
		if err != nil {
			return nil, err
		}
		if !ok {
			return duplicate{requestID: cmd.RequestID}, nil
		}

		if err := s.bind.Bind(scope.Q).Delete(ctx, cmd.DocID); err != nil {
			return nil, err
		}
		// the delete change kind drives projection removal; no reindex event
		scope.Docs.Deleted(cmd.DocID)
		return cmd.DocID, nil
	})
}

func (s *Svc) doReindex(ctx context.Context, cmd domain.ReindexDocumentCmd) (string, error) {
	return submit[string](ctx, s, cmd.RequestID, func(ctx context.Context, scope *writerdom.TxScope) (any, error) {
		ok, err := s.keys.TryRegister(ctx, scope.Q, cmd.RequestID, scope.Clock.Now())
		if err != nil {
			return nil, err
		}
		if !ok {
			return duplicate{requestID: cmd.RequestID}, nil
		}

		if err := s.bind.Bind(scope.Q).MarkStale(ctx, cmd.DocID); err != nil {
			return nil, err
		}
		now := scope.Clock.Now().UTC()
		scope.Docs.Modified(cmd.DocID)
		scope.Docs.Raise(domain.ReindexEvent{DocID: cmd.DocID, Reason: domain.ReasonManual, OccurredAt: now})
		return cmd.DocID, nil
	})
}
