package sqlinline

const QInsertBulkRun = `--sql 3c1f8a72-5b0e-4d1a-9f6c-8e2d4a7b9c01
insert into bulk_runs(id, shop, area, mode, total, succeeded, failed, duration_ms, created_at)
values ($1::uuid, $2::text, $3::text, $4::text, $5::int, $6::int, $7::int, $8::bigint, now());
`

const QListBulkRunsByShop = `--sql 7d94e2b1-1f3a-4c58-9a07-5b6c8d2e4f13
select id, shop, area, mode, total, succeeded, failed, duration_ms, created_at
from bulk_runs
where shop = $1::text
order by created_at desc
limit $2::int;
`
